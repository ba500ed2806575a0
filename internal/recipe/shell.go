package recipe

import (
	"slices"

	"github.com/pinionhq/pinion/internal/index"
	"github.com/pinionhq/pinion/internal/platform"
	"github.com/pinionhq/pinion/internal/toolchain"
)

// The declared shell specification provided at the input boundary.
type ShellSpec struct {
	ExtraTools []string
	Toolchain  *ToolchainOverride
}

// Requests a toolchain variant for the shell distinct from the package's
// own, e.g. with additional optional components. A nil override reuses the
// package channel and extensions unchanged.
type ToolchainOverride struct {
	Channel    string   // Replaces the package channel when non-empty.
	Extensions []string // Added on top of the package extensions.
}

// Controls shell recipe construction.
type ShellOptions struct {
	Name       string            // Package name; the shell recipe is named "<name>-shell".
	Axis       string            // Toolchain axis to select from.
	Channel    string            // Package-level channel, before any override.
	Extensions []string          // Package-level extensions, before any override.
	Platform   platform.Platform // Target platform the index was composed for.
}

// Constructs the interactive environment recipe for one platform.
//
// Resolution and failure semantics match [Build], but the produced recipe
// carries no runtime-libs distinction: the toolchain's own tools and every
// declared extra tool are available at interactive time only. The override
// is applied to a fresh toolchain selection, so the package recipe's
// toolchain is never affected.
func ComposeShell(spec ShellSpec, ix *index.Index, opts ShellOptions) (*Recipe, error) {
	channel := opts.Channel
	extensions := opts.Extensions

	if o := spec.Toolchain; o != nil {
		if o.Channel != "" {
			channel = o.Channel
		}
		if len(o.Extensions) > 0 {
			extensions = append(slices.Clone(extensions), o.Extensions...)
		}
	}

	tc, err := toolchain.Select(ix, opts.Axis, channel, extensions)
	if err != nil {
		return nil, err
	}

	tools, err := resolve(ix, spec.ExtraTools)
	if err != nil {
		return nil, err
	}

	return &Recipe{
		Name:       opts.Name + "-shell",
		Platform:   platform.Format(opts.Platform),
		Kind:       KindShell,
		Toolchain:  tc,
		BuildTools: tools,
	}, nil
}
