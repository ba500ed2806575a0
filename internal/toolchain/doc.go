// Package toolchain selects a concrete toolchain variant from a composed
// index.
//
// A channel names a stability policy ("stable-latest", "stable-1.76.0",
// "nightly-2024-01-15"): a track plus either an exact version or the
// highest version available on that track. Selection is a pure function of
// the index and channel, so repeated calls within one evaluation yield
// value-equal descriptors without any caching.
package toolchain
