package index

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"golang.org/x/mod/semver"

	"github.com/pinionhq/pinion/internal/platform"
)

// A concrete package definition, resolved for one platform.
type Package struct {
	Name    string
	Version string
	Ref     string
}

// A concrete toolchain variant on an axis, resolved for one platform.
type Variant struct {
	Axis       string
	Track      string
	Version    string
	Ref        string
	Tools      []string
	Extensions []string
}

// An immutable snapshot of package and toolchain definitions for exactly one
// platform, produced by [Compose]. Lookups never mutate the snapshot.
type Index struct {
	packages map[string]Package
	variants map[string][]Variant
}

// Composes a base source with an ordered sequence of overlays for one
// platform.
//
// Overlays apply strictly left to right. Each may add a new entry or replace
// an existing one by name; nothing can delete an entry, and for plain
// replacement the last writer wins silently. Toolchain variants with the
// same axis, track, and version replace one another with their extension
// sets merged.
//
// Fails with [ErrOverlayConflict] only when two sources in this composition
// pin different hard track requirements for the same toolchain axis. Pure
// function: identical inputs always yield value-equal indices.
func Compose(base *Source, overlays []*Source, p platform.Platform) (*Index, error) {
	sources := make([]*Source, 0, len(overlays)+1)
	sources = append(sources, base)
	sources = append(sources, overlays...)

	if err := checkRequirements(sources); err != nil {
		return nil, err
	}

	ix := &Index{
		packages: make(map[string]Package),
		variants: make(map[string][]Variant),
	}

	ctx := evalContext(p)
	for _, src := range sources {
		if err := ix.apply(src, p, ctx); err != nil {
			return nil, err
		}
	}

	for axis := range ix.variants {
		sortVariants(ix.variants[axis])
	}

	return ix, nil
}

// Verifies that no two sources pin different tracks for the same toolchain
// axis. Extension sets are deliberately not checked: upstream treats
// extension combination as an additive merge.
func checkRequirements(sources []*Source) error {
	type claim struct {
		track  string
		source string
	}

	claims := make(map[string]claim)
	for _, src := range sources {
		for _, req := range src.file.Requires {
			prev, ok := claims[req.Axis]
			if ok && prev.track != req.Track {
				return fmt.Errorf("%w: axis %q: %s requires track %q, %s requires track %q",
					ErrOverlayConflict, req.Axis, prev.source, prev.track, src.name, req.Track)
			}
			claims[req.Axis] = claim{track: req.Track, source: src.name}
		}
	}
	return nil
}

// Applies one source's definitions for the target platform.
//
// Entries constrained to other platforms are invisible to this composition.
func (ix *Index) apply(src *Source, p platform.Platform, ctx *hcl.EvalContext) error {
	for _, blk := range src.file.Packages {
		ok, err := platform.Matches(p, blk.Platforms)
		if err != nil {
			return fmt.Errorf("%w: %s: package %q: %w", ErrInvalidSource, src.name, blk.Name, err)
		}
		if !ok {
			continue
		}

		ref, err := evalRef(src.name, blk.Ref, ctx)
		if err != nil {
			return err
		}

		ix.packages[blk.Name] = Package{
			Name:    blk.Name,
			Version: blk.Version,
			Ref:     ref,
		}
	}

	for _, blk := range src.file.Toolchains {
		ok, err := platform.Matches(p, blk.Platforms)
		if err != nil {
			return fmt.Errorf("%w: %s: toolchain %q: %w", ErrInvalidSource, src.name, blk.Axis, err)
		}
		if !ok {
			continue
		}

		ref, err := evalRef(src.name, blk.Ref, ctx)
		if err != nil {
			return err
		}

		ix.addVariant(Variant{
			Axis:       blk.Axis,
			Track:      blk.Track,
			Version:    blk.Version,
			Ref:        ref,
			Tools:      slices.Clone(blk.Tools),
			Extensions: slices.Clone(blk.Extensions),
		})
	}

	return nil
}

// Adds or replaces a toolchain variant.
//
// A variant with the same axis, track, and version replaces the earlier
// definition, merging the two extension sets.
func (ix *Index) addVariant(v Variant) {
	existing := ix.variants[v.Axis]
	for i, prev := range existing {
		if prev.Track == v.Track && prev.Version == v.Version {
			v.Extensions = mergeExtensions(prev.Extensions, v.Extensions)
			existing[i] = v
			return
		}
	}
	ix.variants[v.Axis] = append(existing, v)
}

// Returns the package definition for the given name, if present.
func (ix *Index) Package(name string) (Package, bool) {
	pkg, ok := ix.packages[name]
	return pkg, ok
}

// Returns all variants on a toolchain axis, sorted by track then descending
// version. The returned slice is a copy.
func (ix *Index) Variants(axis string) []Variant {
	return slices.Clone(ix.variants[axis])
}

// Returns all package names in sorted order.
func (ix *Index) Packages() []string {
	names := make([]string, 0, len(ix.packages))
	for name := range ix.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merges two extension sets into a sorted union.
func mergeExtensions(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	merged = append(merged, a...)
	for _, ext := range b {
		if !slices.Contains(merged, ext) {
			merged = append(merged, ext)
		}
	}
	sort.Strings(merged)
	return merged
}

// Sorts variants by track, then by descending version, then by ref for a
// stable order regardless of definition order.
func sortVariants(vs []Variant) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].Track != vs[j].Track {
			return vs[i].Track < vs[j].Track
		}
		if c := CompareVersions(vs[i].Version, vs[j].Version); c != 0 {
			return c > 0
		}
		return vs[i].Ref < vs[j].Ref
	})
}

// Compares two version strings, using semver ordering where both parse and
// falling back to lexical comparison otherwise.
func CompareVersions(a, b string) int {
	va, vb := canonical(a), canonical(b)
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb)
	}
	return strings.Compare(a, b)
}

// Prefixes a bare version with "v" for the semver package.
func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
