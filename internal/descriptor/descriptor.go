package descriptor

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/pinionhq/pinion/internal/lockfile"
	"github.com/pinionhq/pinion/internal/platform"
	"github.com/pinionhq/pinion/internal/recipe"
)

// The parsed project descriptor: which platforms to evaluate, which pinned
// inputs provide the index and overlays, and the declared package, shell,
// and toolchain specifications.
type Descriptor struct {
	Platforms []string      `hcl:"platforms"`
	Package   PackageBlock  `hcl:"package,block"`
	Toolchain ToolchainSpec `hcl:"toolchain,block"`
	Index     SourceRef     `hcl:"index,block"`
	Overlays  []OverlayRef  `hcl:"overlay,block"`
	Shell     *ShellBlock   `hcl:"shell,block"`
}

// Declares the package to build.
type PackageBlock struct {
	Name        string   `hcl:"name,label"`
	Version     string   `hcl:"version"`
	Source      string   `hcl:"source"` // Lock input naming the source tree.
	Lock        string   `hcl:"lock"`   // Lock input naming the dependency lock file.
	BuildTools  []string `hcl:"build_tools,optional"`
	RuntimeLibs []string `hcl:"runtime_libs,optional"`
}

// Declares the toolchain axis, channel, and extensions for the build.
type ToolchainSpec struct {
	Axis       string   `hcl:"axis,label"`
	Channel    string   `hcl:"channel"`
	Extensions []string `hcl:"extensions,optional"`
}

// Names the lock input providing the base index document.
type SourceRef struct {
	Source string `hcl:"source"`
}

// Names the lock input providing one overlay document. Overlays apply in
// declaration order.
type OverlayRef struct {
	Name   string `hcl:"name,label"`
	Source string `hcl:"source"`
}

// Declares the interactive shell environment.
type ShellBlock struct {
	ExtraTools []string       `hcl:"extra_tools,optional"`
	Toolchain  *OverrideBlock `hcl:"toolchain,block"`
}

// Overrides the shell's toolchain selection.
type OverrideBlock struct {
	Channel    string   `hcl:"channel,optional"`
	Extensions []string `hcl:"extensions,optional"`
}

// Parses a project descriptor from HCL.
func Parse(filename string, src []byte) (*Descriptor, error) {
	f, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDescriptor, diags.Error())
	}

	var d Descriptor
	if diags := gohcl.DecodeBody(f.Body, nil, &d); diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDescriptor, diags.Error())
	}

	if _, err := platform.List(d.Platforms); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	return &d, nil
}

// Reads and parses a project descriptor from disk.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	return Parse(path, data)
}

// Verifies that every lock input the descriptor references exists in the
// lock set. Returns the first unresolved reference.
func (d *Descriptor) Validate(lockSet *lockfile.Set) error {
	refs := []string{d.Index.Source, d.Package.Source, d.Package.Lock}
	for _, o := range d.Overlays {
		refs = append(refs, o.Source)
	}

	for _, ref := range refs {
		if _, err := lockSet.Resolve(ref); err != nil {
			return err
		}
	}
	return nil
}

// Returns the normalized target platforms.
func (d *Descriptor) TargetPlatforms() ([]platform.Platform, error) {
	return platform.List(d.Platforms)
}

// Returns the declared package specification for recipe construction.
func (d *Descriptor) PackageSpec() recipe.PackageSpec {
	return recipe.PackageSpec{
		Name:        d.Package.Name,
		Version:     d.Package.Version,
		SourceInput: d.Package.Source,
		LockInput:   d.Package.Lock,
		BuildTools:  d.Package.BuildTools,
		RuntimeLibs: d.Package.RuntimeLibs,
	}
}

// Returns the declared shell specification. A descriptor without a shell
// block gets an empty spec: the toolchain alone, no extra tools.
func (d *Descriptor) ShellSpec() recipe.ShellSpec {
	if d.Shell == nil {
		return recipe.ShellSpec{}
	}

	spec := recipe.ShellSpec{ExtraTools: d.Shell.ExtraTools}
	if o := d.Shell.Toolchain; o != nil {
		spec.Toolchain = &recipe.ToolchainOverride{
			Channel:    o.Channel,
			Extensions: o.Extensions,
		}
	}
	return spec
}
