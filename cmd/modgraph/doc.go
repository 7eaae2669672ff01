// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the modgraph CLI.
//
// Every command except config loads module declarations into a
// modgraph.Graph first. check answers one access question against it and
// describe prints it in read order.
package cmd
