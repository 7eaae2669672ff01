// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Both the configuration file and CUE module graph declarations go through
// the same three steps: compile the schema, compile and unify the user data,
// then validate and decode into a Go value. Errors carry the file name and
// the JSON-style path of the offending field:
//
//	graph.cue: modules[1].packages[0]: invalid value "a b"
package cueutil
