package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pinionhq/pinion/internal/descriptor"
	"github.com/pinionhq/pinion/internal/eval"
	"github.com/pinionhq/pinion/internal/index"
	"github.com/pinionhq/pinion/internal/lockfile"
	"github.com/pinionhq/pinion/internal/paths"
	"github.com/pinionhq/pinion/internal/platform"
)

// Aggregates the parsed descriptor, lock set, and index sources a command
// needs to run an evaluation.
type project struct {
	desc      *descriptor.Descriptor
	lockSet   *lockfile.Set
	base      *index.Source
	overlays  []*index.Source
	platforms []platform.Platform
}

// Loads the descriptor and lock file, validates every input reference, and
// reads the index and overlay documents from the local store.
func loadProject() (*project, error) {
	desc, err := descriptor.Load(RootCmd.Descriptor)
	if err != nil {
		return nil, err
	}

	lockSet, err := lockfile.Load(RootCmd.Lock)
	if err != nil {
		return nil, err
	}

	if err := desc.Validate(lockSet); err != nil {
		return nil, err
	}

	store := RootCmd.Store
	if store == "" {
		store = paths.Store()
	}

	base, err := loadSource(store, lockSet, desc.Index.Source)
	if err != nil {
		return nil, err
	}

	overlays := make([]*index.Source, 0, len(desc.Overlays))
	for _, o := range desc.Overlays {
		src, err := loadSource(store, lockSet, o.Source)
		if err != nil {
			return nil, err
		}
		overlays = append(overlays, src)
	}

	targets, err := desc.TargetPlatforms()
	if err != nil {
		return nil, err
	}

	return &project{
		desc:      desc,
		lockSet:   lockSet,
		base:      base,
		overlays:  overlays,
		platforms: targets,
	}, nil
}

// Reads one pinned input document from the store and verifies its content
// against the lock before parsing.
func loadSource(store string, lockSet *lockfile.Set, name string) (*index.Source, error) {
	data, err := os.ReadFile(filepath.Join(store, name))
	if err != nil {
		return nil, fmt.Errorf("read input %q from store: %w", name, err)
	}

	if err := lockSet.Verify(name, data); err != nil {
		return nil, err
	}

	return index.ParseSource(name, data)
}

// Builds the evaluation request, optionally restricted to one platform.
func (p *project) request(only string) (eval.Request, error) {
	targets := p.platforms

	if only != "" {
		want, err := platform.Parse(only)
		if err != nil {
			return eval.Request{}, err
		}

		targets = nil
		for _, t := range p.platforms {
			if platform.Format(t) == platform.Format(want) {
				targets = []platform.Platform{t}
				break
			}
		}
		if targets == nil {
			return eval.Request{}, fmt.Errorf("platform %q is not declared in %s", only, RootCmd.Descriptor)
		}
	}

	return eval.Request{
		LockSet:    p.lockSet,
		Base:       p.base,
		Overlays:   p.overlays,
		Package:    p.desc.PackageSpec(),
		Shell:      p.desc.ShellSpec(),
		Axis:       p.desc.Toolchain.Axis,
		Channel:    p.desc.Toolchain.Channel,
		Extensions: p.desc.Toolchain.Extensions,
		Platforms:  targets,
	}, nil
}
