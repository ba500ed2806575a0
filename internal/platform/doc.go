// Package platform enumerates the build targets an evaluation runs against.
//
// Platforms are OCI platform tuples parsed and normalized with the
// containerd platform matcher, so aliases like "aarch64" and "arm64"
// collapse to one canonical form. Enumeration is a pure function of the
// configured specifier list: no environment probing, no side effects, and
// evaluation for one platform never depends on another.
package platform
