// Package recipe constructs the build recipes an evaluation emits.
//
// A recipe is the complete, reproducible description of one artifact: the
// pinned source and lock file copied verbatim from the lock set, the
// selected toolchain, and every declared dependency resolved against the
// composed index for the target platform. Two shapes exist: the package
// recipe for the distributable artifact, and the shell recipe bundling the
// toolchain with auxiliary developer tools for interactive use.
//
// Construction is pure. The external builder performs all fetching and
// compiling; this package only ever describes.
package recipe
