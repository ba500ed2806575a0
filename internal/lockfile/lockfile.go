package lockfile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/opencontainers/go-digest"
)

// Lock file format version understood by this build.
const FormatVersion = 1

// A pinned external input: a source reference plus the content digest the
// fetched content must hash to.
type Input struct {
	Ref         string        `json:"ref"`
	ContentHash digest.Digest `json:"contentHash"`
}

// An immutable set of pinned inputs keyed by symbolic name.
//
// A set is created once by [Parse] or [Load] and read-only thereafter.
// Regenerating the underlying lock file is an external concern; the
// evaluator only consumes it.
type Set struct {
	version int
	inputs  map[string]Input
}

// Wire representation of the lock file.
type lockDocument struct {
	Version int              `json:"version"`
	Inputs  map[string]Input `json:"inputs"`
}

// Parses a lock file from its JSON encoding.
//
// Every content hash is validated for well-formedness; hashes are never
// recomputed here, only checked against content later via [Set.Verify].
func Parse(data []byte) (*Set, error) {
	var doc lockDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLock, err)
	}

	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidLock, doc.Version)
	}

	for name, in := range doc.Inputs {
		if in.Ref == "" {
			return nil, fmt.Errorf("%w: input %q has no ref", ErrInvalidLock, name)
		}
		if err := in.ContentHash.Validate(); err != nil {
			return nil, fmt.Errorf("%w: input %q: %w", ErrInvalidLock, name, err)
		}
	}

	if doc.Inputs == nil {
		doc.Inputs = map[string]Input{}
	}

	return &Set{version: doc.Version, inputs: doc.Inputs}, nil
}

// Reads and parses a lock file from disk.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lock file: %w", err)
	}
	return Parse(data)
}

// Returns the pinned input for the given symbolic name.
//
// Fails with [ErrUnknownInput] when the name is not present; every name
// referenced anywhere in a descriptor must resolve here.
func (s *Set) Resolve(name string) (Input, error) {
	in, ok := s.inputs[name]
	if !ok {
		return Input{}, fmt.Errorf("%w: %q", ErrUnknownInput, name)
	}
	return in, nil
}

// Verifies fetched content against the pinned hash for the given input.
//
// The hash is never recomputed into the set; a mismatch fails with
// [ErrHashMismatch] naming the input.
func (s *Set) Verify(name string, content []byte) error {
	in, err := s.Resolve(name)
	if err != nil {
		return err
	}

	actual := in.ContentHash.Algorithm().FromBytes(content)
	if actual != in.ContentHash {
		return fmt.Errorf("%w: input %q: pinned %s, fetched content is %s",
			ErrHashMismatch, name, in.ContentHash, actual)
	}
	return nil
}

// Returns the input names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.inputs))
	for name := range s.inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Returns the number of pinned inputs.
func (s *Set) Len() int {
	return len(s.inputs)
}
