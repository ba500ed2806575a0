// Package index models the package index and its overlay composition.
//
// An index source is an HCL document of package and toolchain definitions
// whose refs are parameterized by the target platform. Composition merges a
// base source with an ordered sequence of overlay sources into an immutable
// per-platform snapshot: overlays apply left to right, later definitions
// shadow earlier ones by name, and nothing can remove an entry. The global
// mutable registry this replaces is deliberately absent; every snapshot is
// threaded explicitly through the evaluation that consumes it.
//
// Example usage:
//
//	base, err := index.ParseSource("pkgs", data)
//	if err != nil {
//	    return err
//	}
//
//	ix, err := index.Compose(base, overlays, target)
//	if err != nil {
//	    return err
//	}
//
//	pkg, ok := ix.Package("openssl")
package index
