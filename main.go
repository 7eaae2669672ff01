// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/modgraph/cmd/modgraph"

func main() {
	cmd.Execute()
}
