// SPDX-License-Identifier: MPL-2.0

// Package decl loads declarative module graphs and applies them to a
// modgraph.Graph.
//
// A declaration lists modules with their packages, exports and read edges.
// The same structure can be written in CUE, JSON, HCL, YAML or TOML; the file
// extension picks the decoder. In CUE:
//
//	modules: [{
//		name:     "com.example.app"
//		packages: ["com.example.app"]
//		reads:    ["com.example.lib"]
//	}, {
//		name:     "com.example.lib"
//		packages: ["com.example.lib.api", "com.example.lib.impl"]
//		exports: [{package: "com.example.lib.api"}]
//	}]
//
// and in HCL:
//
//	module "com.example.lib" {
//	  packages = ["com.example.lib.api", "com.example.lib.impl"]
//	  export "com.example.lib.api" {}
//	}
package decl
