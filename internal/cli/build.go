package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pinionhq/pinion/internal/eval"
	"github.com/pinionhq/pinion/internal/paths"
	"github.com/pinionhq/pinion/internal/recipe"
)

// Represents the 'pinion build' command.
type BuildCmd struct {
	Platform string `short:"p" help:"Restrict evaluation to a single platform." placeholder:"OS/ARCH"`
	Out      string `short:"o" help:"Directory for the emitted recipe mapping." placeholder:"DIR"`
}

// Executes the build command.
//
// Evaluates package recipes for all declared platforms (or one) and writes
// the mapping for the external builder. Exits non-zero when any platform
// failed; recipes for the platforms that succeeded are still written.
func (c *BuildCmd) Run(ctx context.Context) error {
	return runEvaluation(ctx, recipe.KindPackage, c.Platform, c.Out)
}

// Represents the 'pinion shell' command.
type ShellCmd struct {
	Platform string `short:"p" help:"Restrict evaluation to a single platform." placeholder:"OS/ARCH"`
	Out      string `short:"o" help:"Directory for the emitted recipe mapping." placeholder:"DIR"`
}

// Executes the shell command.
//
// Same evaluation as 'pinion build', selecting the shell recipes.
func (c *ShellCmd) Run(ctx context.Context) error {
	return runEvaluation(ctx, recipe.KindShell, c.Platform, c.Out)
}

// The emitted document: one recipe per platform plus any failures.
type mappingDocument struct {
	Kind     recipe.Kind               `json:"kind"`
	Recipes  map[string]*recipe.Recipe `json:"recipes"`
	Failures []*eval.PlatformError     `json:"failures,omitempty"`
}

// Runs a full evaluation and emits the recipe mapping of the given kind.
func runEvaluation(ctx context.Context, kind recipe.Kind, only, out string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}

	req, err := proj.request(only)
	if err != nil {
		return err
	}

	res, err := eval.Evaluate(ctx, req)
	if err != nil {
		return err
	}

	for _, f := range res.Failures {
		slog.Error(f.Error())
	}

	if out == "" {
		out = paths.Output()
	}
	if err := emitMapping(out, kind, res); err != nil {
		return err
	}

	slog.Info("evaluation complete",
		"kind", kind,
		"platforms", res.Platforms(),
		"failures", len(res.Failures),
	)

	return res.Err()
}

// Writes the recipe mapping as JSON to <out>/<kind>s.json.
func emitMapping(out string, kind recipe.Kind, res *eval.Result) error {
	if err := os.MkdirAll(out, paths.DefaultDirMode); err != nil {
		return err
	}

	doc := mappingDocument{
		Kind:     kind,
		Recipes:  res.Recipes(kind),
		Failures: res.Failures,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := filepath.Join(out, string(kind)+"s.json")
	if err := os.WriteFile(path, data, paths.DefaultFileMode); err != nil {
		return err
	}

	slog.Debug("wrote recipe mapping", "path", path)
	return nil
}
