package eval

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pinionhq/pinion/internal/recipe"
)

// The pair of recipes computed for one platform.
type Target struct {
	Platform string         `json:"platform"`
	Package  *recipe.Recipe `json:"package"`
	Shell    *recipe.Recipe `json:"shell"`
}

// The sole externally observable artifact of an evaluation: the
// platform-to-recipes mapping plus any per-platform failures. Recomputed
// fresh on every evaluation; nothing is cached between runs.
type Result struct {
	Targets  map[string]Target `json:"targets"`
	Failures []*PlatformError  `json:"failures,omitempty"`
}

// Wraps the first failure of one platform's evaluation, tagged with the
// platform it belongs to.
type PlatformError struct {
	Platform string
	Err      error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform %s: evaluation failed: %v", e.Platform, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// Serializes the failure for the emitted mapping.
func (e *PlatformError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Platform string `json:"platform"`
		Error    string `json:"error"`
	}{Platform: e.Platform, Error: e.Err.Error()})
}

// Returns all per-platform failures joined into one error, or nil when
// every platform evaluated cleanly.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Returns the recipes of the given kind keyed by platform.
func (r *Result) Recipes(kind recipe.Kind) map[string]*recipe.Recipe {
	out := make(map[string]*recipe.Recipe, len(r.Targets))
	for p, t := range r.Targets {
		if kind == recipe.KindShell {
			out[p] = t.Shell
		} else {
			out[p] = t.Package
		}
	}
	return out
}

// Returns the successfully evaluated platforms in sorted order.
func (r *Result) Platforms() []string {
	out := make([]string, 0, len(r.Targets))
	for p := range r.Targets {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Sorts failures by platform for stable reporting.
func (r *Result) sortFailures() {
	sort.Slice(r.Failures, func(i, j int) bool {
		return r.Failures[i].Platform < r.Failures[j].Platform
	})
}
