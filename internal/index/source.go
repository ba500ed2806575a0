package index

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/pinionhq/pinion/internal/platform"
)

// Wire representation of an index or overlay document.
type sourceFile struct {
	Packages   []packageBlock   `hcl:"package,block"`
	Toolchains []toolchainBlock `hcl:"toolchain,block"`
	Requires   []requireBlock   `hcl:"requires,block"`
}

// A package definition, parameterized by platform via its ref expression.
type packageBlock struct {
	Name      string         `hcl:"name,label"`
	Version   string         `hcl:"version"`
	Ref       hcl.Expression `hcl:"ref"`
	Platforms []string       `hcl:"platforms,optional"`
}

// A toolchain variant definition on a named axis.
type toolchainBlock struct {
	Axis       string         `hcl:"axis,label"`
	Track      string         `hcl:"track"`
	Version    string         `hcl:"version"`
	Ref        hcl.Expression `hcl:"ref"`
	Tools      []string       `hcl:"tools"`
	Extensions []string       `hcl:"extensions,optional"`
	Platforms  []string       `hcl:"platforms,optional"`
}

// A hard requirement an overlay places on a toolchain axis.
type requireBlock struct {
	Axis  string `hcl:"axis,label"`
	Track string `hcl:"track"`
}

// A parsed index or overlay document.
//
// A source is platform-parameterized: package and toolchain refs are HCL
// expressions evaluated against a platform object during composition. The
// source itself holds no evaluated state and may be composed for any number
// of platforms.
type Source struct {
	name string
	file sourceFile
}

// Parses an index or overlay document from HCL.
//
// The name identifies the source in diagnostics and conflict reports,
// conventionally the lock input name the document came from.
func ParseSource(name string, src []byte) (*Source, error) {
	f, diags := hclsyntax.ParseConfig(src, name+".hcl", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidSource, name, diags.Error())
	}

	var file sourceFile
	if diags := gohcl.DecodeBody(f.Body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidSource, name, diags.Error())
	}

	return &Source{name: name, file: file}, nil
}

// Returns the source's name.
func (s *Source) Name() string {
	return s.name
}

// Builds the evaluation context exposing the target platform to ref
// expressions as platform.os, platform.arch, and platform.variant.
func evalContext(p platform.Platform) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"platform": cty.ObjectVal(map[string]cty.Value{
				"os":      cty.StringVal(p.OS),
				"arch":    cty.StringVal(p.Architecture),
				"variant": cty.StringVal(p.Variant),
			}),
		},
	}
}

// Evaluates a ref expression to its concrete string for one platform.
func evalRef(source string, expr hcl.Expression, ctx *hcl.EvalContext) (string, error) {
	v, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return "", fmt.Errorf("%w: %s: %s", ErrInvalidSource, source, diags.Error())
	}
	if v.Type() != cty.String || v.IsNull() {
		return "", fmt.Errorf("%w: %s: ref must be a string", ErrInvalidSource, source)
	}
	return v.AsString(), nil
}
