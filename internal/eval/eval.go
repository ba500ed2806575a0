package eval

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pinionhq/pinion/internal/index"
	"github.com/pinionhq/pinion/internal/lockfile"
	"github.com/pinionhq/pinion/internal/platform"
	"github.com/pinionhq/pinion/internal/recipe"
	"github.com/pinionhq/pinion/internal/toolchain"
)

// Describes one full evaluation: the pinned inputs, the index sources, the
// declared package and shell specifications, and the platforms to cover.
type Request struct {
	LockSet    *lockfile.Set
	Base       *index.Source
	Overlays   []*index.Source // Applied in order after the base.
	Package    recipe.PackageSpec
	Shell      recipe.ShellSpec
	Axis       string   // Toolchain axis, e.g. "rust".
	Channel    string   // Stability channel, e.g. "stable-latest".
	Extensions []string // Toolchain extensions for the package build.
	Platforms  []platform.Platform
	Workers    int // Worker pool size; defaults to the CPU count.
}

// Evaluates every platform in the request and assembles the output mapping.
//
// Platforms are independent, order-insensitive units of work run on a
// bounded worker pool. Each result slot is written exactly once by exactly
// one worker; no other state is shared. A platform's failure is captured as
// a [PlatformError] without blocking or corrupting the entries computed for
// other platforms. When ctx is cancelled, platforms not yet started are
// abandoned (no side effects were performed for them) and entries already
// computed remain valid in the returned partial result.
//
// An empty platform list yields an empty, non-error result.
func Evaluate(ctx context.Context, req Request) (*Result, error) {
	if req.LockSet == nil || req.Base == nil {
		return nil, fmt.Errorf("%w: lock set and base index are required", ErrInvalidRequest)
	}

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	slog.Debug("evaluating",
		"package", req.Package.Name,
		"channel", req.Channel,
		"platforms", len(req.Platforms),
		"workers", workers,
	)

	// One slot per platform, written exactly once.
	slots := make([]slot, len(req.Platforms))

	var g errgroup.Group
	g.SetLimit(workers)

	var i int
	for p := range platform.Enumerate(req.Platforms) {
		out := &slots[i]
		i++

		g.Go(func() error {
			// Abandoned on cancellation: no side effects were performed, so
			// the slot simply stays empty.
			if ctx.Err() != nil {
				return nil
			}

			target, err := evaluatePlatform(req, p)
			if err != nil {
				out.failure = &PlatformError{Platform: platform.Format(p), Err: err}
				return nil
			}
			out.target = target
			return nil
		})
	}

	// Workers never return errors; failures live in their slots.
	_ = g.Wait()

	return collect(slots), nil
}

// Holds the outcome of one platform's evaluation.
type slot struct {
	target  *Target
	failure *PlatformError
}

// Runs the composition pipeline for a single platform: overlay composition,
// toolchain selection, then package and shell recipe construction. Fails
// fast on the first inner error.
func evaluatePlatform(req Request, p platform.Platform) (*Target, error) {
	ix, err := index.Compose(req.Base, req.Overlays, p)
	if err != nil {
		return nil, err
	}

	tc, err := toolchain.Select(ix, req.Axis, req.Channel, req.Extensions)
	if err != nil {
		return nil, err
	}

	pkg, err := recipe.Build(req.Package, req.LockSet, tc, ix, p)
	if err != nil {
		return nil, err
	}

	shell, err := recipe.ComposeShell(req.Shell, ix, recipe.ShellOptions{
		Name:       req.Package.Name,
		Axis:       req.Axis,
		Channel:    req.Channel,
		Extensions: req.Extensions,
		Platform:   p,
	})
	if err != nil {
		return nil, err
	}

	return &Target{
		Platform: platform.Format(p),
		Package:  pkg,
		Shell:    shell,
	}, nil
}

// Assembles slots into the final mapping, preserving every computed entry
// and every failure.
func collect(slots []slot) *Result {
	res := &Result{Targets: make(map[string]Target, len(slots))}
	for _, s := range slots {
		switch {
		case s.target != nil:
			res.Targets[s.target.Platform] = *s.target
		case s.failure != nil:
			res.Failures = append(res.Failures, s.failure)
		}
	}
	res.sortFailures()
	return res
}
