// Package eval drives a full evaluation across every target platform.
//
// For each enumerated platform the driver composes the index, selects a
// toolchain, and constructs the package and shell recipes, assembling the
// results into the platform-to-recipes output mapping. Platforms share no
// mutable state, so they run as independent tasks on a bounded worker pool:
// one result slot per platform, written exactly once, with no ordering
// guarantee between platforms and a deterministic result regardless of
// parallelism degree.
//
// Failures stay local to their platform. The driver wraps the first inner
// error in a tagged PlatformError and keeps every other platform's entry,
// so callers always see successes and failures from one invocation.
//
// Example usage:
//
//	res, err := eval.Evaluate(ctx, eval.Request{
//	    LockSet:   lockSet,
//	    Base:      base,
//	    Overlays:  overlays,
//	    Package:   pkgSpec,
//	    Shell:     shellSpec,
//	    Axis:      "rust",
//	    Channel:   "stable-latest",
//	    Platforms: targets,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := res.Err(); err != nil {
//	    slog.Error(err.Error())
//	}
package eval
