package recipe

import (
	"encoding/json"
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/pinionhq/pinion/internal/index"
	"github.com/pinionhq/pinion/internal/lockfile"
	"github.com/pinionhq/pinion/internal/platform"
	"github.com/pinionhq/pinion/internal/toolchain"
)

// Distinguishes the two recipe shapes an evaluation produces.
type Kind string

const (
	KindPackage Kind = "package"
	KindShell   Kind = "shell"
)

// A pinned input copied verbatim from the lock set.
type Pin struct {
	Ref         string        `json:"ref"`
	ContentHash digest.Digest `json:"contentHash"`
}

// A dependency resolved against the composed index for one platform.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Ref     string `json:"ref"`
}

// A fully specified, reproducible description of how to produce one
// artifact. Owned by the evaluation driver until handed to the external
// builder; never mutated after construction.
type Recipe struct {
	Name        string               `json:"name"`
	Version     string               `json:"version"`
	Platform    string               `json:"platform"`
	Kind        Kind                 `json:"kind"`
	Source      Pin                  `json:"source,omitzero"`
	LockFile    Pin                  `json:"lockFile,omitzero"`
	Toolchain   toolchain.Descriptor `json:"toolchain"`
	BuildTools  []Dependency         `json:"buildTools,omitempty"`
	RuntimeLibs []Dependency         `json:"runtimeLibs,omitempty"`
}

// The declared package specification provided at the input boundary.
type PackageSpec struct {
	Name        string
	Version     string
	SourceInput string // Lock input naming the source tree.
	LockInput   string // Lock input naming the declared dependency lock file.
	BuildTools  []string
	RuntimeLibs []string
}

// Constructs the build recipe for the distributable artifact.
//
// Every declared build tool and runtime lib must resolve against the
// composed index for the target platform; a miss fails with
// [ErrUnresolvedDependency] naming the entry. Source and lock file pins are
// copied verbatim from the lock set, so the recipe is reproducible from the
// lock file alone. No network or filesystem access: fetching and compiling
// belong to the external builder.
func Build(spec PackageSpec, lockSet *lockfile.Set, tc toolchain.Descriptor, ix *index.Index, p platform.Platform) (*Recipe, error) {
	source, err := lockSet.Resolve(spec.SourceInput)
	if err != nil {
		return nil, err
	}

	declaredLock, err := lockSet.Resolve(spec.LockInput)
	if err != nil {
		return nil, err
	}

	buildTools, err := resolve(ix, spec.BuildTools)
	if err != nil {
		return nil, err
	}

	runtimeLibs, err := resolve(ix, spec.RuntimeLibs)
	if err != nil {
		return nil, err
	}

	return &Recipe{
		Name:        spec.Name,
		Version:     spec.Version,
		Platform:    platform.Format(p),
		Kind:        KindPackage,
		Source:      Pin{Ref: source.Ref, ContentHash: source.ContentHash},
		LockFile:    Pin{Ref: declaredLock.Ref, ContentHash: declaredLock.ContentHash},
		Toolchain:   tc,
		BuildTools:  buildTools,
		RuntimeLibs: runtimeLibs,
	}, nil
}

// Resolves declared dependency names against the composed index, preserving
// declaration order.
func resolve(ix *index.Index, names []string) ([]Dependency, error) {
	if len(names) == 0 {
		return nil, nil
	}

	deps := make([]Dependency, 0, len(names))
	for _, name := range names {
		pkg, ok := ix.Package(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedDependency, name)
		}
		deps = append(deps, Dependency{
			Name:    pkg.Name,
			Version: pkg.Version,
			Ref:     pkg.Ref,
		})
	}
	return deps, nil
}

// Returns the content digest of the recipe's canonical JSON encoding.
//
// Identical recipes hash identically, giving each recipe a stable identity
// the external builder can key its cache on.
func (r *Recipe) Digest() digest.Digest {
	b, err := json.Marshal(r)
	if err != nil {
		// All recipe fields are plain data; marshaling cannot fail.
		panic(fmt.Sprintf("recipe: marshal %s: %v", r.Name, err))
	}
	return digest.FromBytes(b)
}
