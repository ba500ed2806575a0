package platform

import (
	"fmt"
	"iter"
	"slices"

	"github.com/containerd/platforms"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// A build target. OS and architecture are always populated; the variant is
// optional (e.g., "v7" for 32-bit ARM).
type Platform = ocispec.Platform

// Parses a platform specifier (e.g., "linux/amd64") into a normalized
// [Platform].
func Parse(spec string) (Platform, error) {
	p, err := platforms.Parse(spec)
	if err != nil {
		return Platform{}, fmt.Errorf("invalid platform %q: %w", spec, err)
	}
	return platforms.Normalize(p), nil
}

// Formats a platform as "os/arch" (plus "/variant" when set).
func Format(p Platform) string {
	return platforms.Format(p)
}

// Parses a list of platform specifiers into normalized platforms.
//
// Duplicates (after normalization) are dropped, keeping the first
// occurrence. Order is otherwise preserved, so the same input always yields
// the same list. An empty input yields an empty list, not an error.
func List(specs []string) ([]Platform, error) {
	seen := make(map[string]struct{}, len(specs))
	list := make([]Platform, 0, len(specs))

	for _, spec := range specs {
		p, err := Parse(spec)
		if err != nil {
			return nil, err
		}

		key := Format(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		list = append(list, p)
	}

	return list, nil
}

// Returns a lazy sequence over the given platforms.
//
// The sequence is finite, duplicate-free when built via [List], and
// restartable: ranging over it twice yields the same platforms in the same
// order. It never fails; an empty list produces an empty sequence.
func Enumerate(list []Platform) iter.Seq[Platform] {
	list = slices.Clone(list)
	return func(yield func(Platform) bool) {
		for _, p := range list {
			if !yield(p) {
				return
			}
		}
	}
}

// Reports whether platform p satisfies any of the given constraint
// specifiers. An empty constraint list matches every platform.
func Matches(p Platform, constraints []string) (bool, error) {
	if len(constraints) == 0 {
		return true, nil
	}
	for _, spec := range constraints {
		c, err := Parse(spec)
		if err != nil {
			return false, err
		}
		if Format(c) == Format(p) {
			return true, nil
		}
	}
	return false, nil
}
