// Package descriptor reads the project's declarative build descriptor.
//
// The descriptor is a checked-in HCL document declaring the target
// platforms, the lock inputs providing the base index and overlays, the
// package to build, and the development shell. It carries no pinned
// content itself; every external reference goes through the lock set by
// symbolic name.
//
// Example descriptor:
//
//	platforms = ["linux/amd64", "linux/arm64", "darwin/arm64"]
//
//	index {
//	  source = "pkgs"
//	}
//
//	overlay "rust" {
//	  source = "rust-overlay"
//	}
//
//	toolchain "rust" {
//	  channel    = "stable-latest"
//	  extensions = ["rust-src"]
//	}
//
//	package "iamb" {
//	  version      = "0.0.9"
//	  source       = "self"
//	  lock         = "cargo-lock"
//	  build_tools  = ["pkg-config", "cmake"]
//	  runtime_libs = ["openssl"]
//	}
//
//	shell {
//	  extra_tools = ["cargo-watch"]
//	}
package descriptor
