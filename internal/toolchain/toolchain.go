package toolchain

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/pinionhq/pinion/internal/index"
)

// Version selector meaning "highest version on the track".
const Latest = "latest"

// Describes one selected toolchain: a value object, never shared mutable
// state. Two selections with identical inputs are value-equal.
type Descriptor struct {
	Axis       string   `json:"axis"`
	Track      string   `json:"track"`
	Version    string   `json:"version"`
	Ref        string   `json:"ref"`
	Tools      []string `json:"tools"`
	Extensions []string `json:"extensions,omitempty"`
}

// A parsed channel: a stability track plus a version selector.
type Channel struct {
	Track   string
	Version string
}

// Parses a channel string of the form "<track>-latest" or
// "<track>-<version>" (e.g., "stable-latest", "nightly-2024-01-15").
func ParseChannel(channel string) (Channel, error) {
	track, version, ok := strings.Cut(channel, "-")
	if !ok || track == "" || version == "" {
		return Channel{}, fmt.Errorf("%w: malformed channel %q", ErrUnavailable, channel)
	}
	return Channel{Track: track, Version: version}, nil
}

// Selects one toolchain variant on the given axis from a composed index.
//
// Resolution is deterministic: "<track>-latest" picks the highest version
// available on the track, an explicit version picks that exact variant.
// Requested extensions are merged into the descriptor additively; they are
// not checked against the variant's advertised extension set, matching the
// upstream treatment of extension combination as a plain merge.
//
// Fails with [ErrUnavailable] when the channel has no matching variant for
// the platform the index was composed for.
func Select(ix *index.Index, axis, channel string, extensions []string) (Descriptor, error) {
	ch, err := ParseChannel(channel)
	if err != nil {
		return Descriptor{}, err
	}

	variants := ix.Variants(axis)
	if len(variants) == 0 {
		return Descriptor{}, fmt.Errorf("%w: no %q toolchain in index", ErrUnavailable, axis)
	}

	var picked *index.Variant
	for i := range variants {
		v := &variants[i]
		if v.Track != ch.Track {
			continue
		}
		if ch.Version != Latest && v.Version != ch.Version {
			continue
		}
		if picked == nil || index.CompareVersions(v.Version, picked.Version) > 0 {
			picked = v
		}
	}

	if picked == nil {
		return Descriptor{}, fmt.Errorf("%w: no %q variant matches channel %q", ErrUnavailable, axis, channel)
	}

	return Descriptor{
		Axis:       picked.Axis,
		Track:      picked.Track,
		Version:    picked.Version,
		Ref:        picked.Ref,
		Tools:      slices.Clone(picked.Tools),
		Extensions: normalizeExtensions(extensions),
	}, nil
}

// Returns the requested extensions as a sorted, duplicate-free set so value
// equality holds regardless of request order.
func normalizeExtensions(requested []string) []string {
	if len(requested) == 0 {
		return nil
	}
	set := make([]string, 0, len(requested))
	for _, ext := range requested {
		if !slices.Contains(set, ext) {
			set = append(set, ext)
		}
	}
	sort.Strings(set)
	return set
}
