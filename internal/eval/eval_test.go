package eval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/sebdah/goldie/v2"

	"github.com/pinionhq/pinion/internal/index"
	"github.com/pinionhq/pinion/internal/lockfile"
	"github.com/pinionhq/pinion/internal/platform"
	"github.com/pinionhq/pinion/internal/recipe"
	"github.com/pinionhq/pinion/internal/toolchain"
)

const baseHCL = `
package "openssl" {
  version = "3.2.1"
  ref     = "pkg/openssl/3.2.1/${platform.os}-${platform.arch}"
}

package "pkg-config" {
  version = "0.29.2"
  ref     = "pkg/pkg-config/0.29.2/${platform.os}-${platform.arch}"
}

package "cargo-watch" {
  version = "8.5.2"
  ref     = "pkg/cargo-watch/8.5.2/${platform.os}-${platform.arch}"
}

package "linux-syms" {
  version   = "6.6"
  ref       = "pkg/linux-syms/6.6"
  platforms = ["linux/amd64", "linux/arm64"]
}
`

const overlayHCL = `
toolchain "rust" {
  track   = "stable"
  version = "1.76.0"
  ref     = "toolchains/rust/1.76.0/${platform.os}-${platform.arch}"
  tools   = ["rustc", "cargo"]
}
`

func mustPlatforms(t *testing.T, specs ...string) []platform.Platform {
	t.Helper()
	list, err := platform.List(specs)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return list
}

func newRequest(t *testing.T, specs ...string) Request {
	t.Helper()

	lockSet, err := lockfile.Parse(fmt.Appendf(nil, `{
		"version": 1,
		"inputs": {
			"self":       {"ref": "github:example/iamb/deadbeef", "contentHash": %q},
			"cargo-lock": {"ref": "github:example/iamb/deadbeef/Cargo.lock", "contentHash": %q}
		}
	}`, digest.FromString("source tree"), digest.FromString("cargo lock")))
	if err != nil {
		t.Fatalf("Parse lock: %v", err)
	}

	base, err := index.ParseSource("pkgs", []byte(baseHCL))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	overlay, err := index.ParseSource("rust-overlay", []byte(overlayHCL))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}

	return Request{
		LockSet:  lockSet,
		Base:     base,
		Overlays: []*index.Source{overlay},
		Package: recipe.PackageSpec{
			Name:        "iamb",
			Version:     "0.0.9",
			SourceInput: "self",
			LockInput:   "cargo-lock",
			BuildTools:  []string{"pkg-config"},
			RuntimeLibs: []string{"openssl"},
		},
		Shell:     recipe.ShellSpec{ExtraTools: []string{"cargo-watch"}},
		Axis:      "rust",
		Channel:   "stable-latest",
		Platforms: mustPlatforms(t, specs...),
	}
}

func TestEvaluate(t *testing.T) {
	req := newRequest(t, "linux/amd64", "linux/arm64", "darwin/arm64")

	res, err := Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if err := res.Err(); err != nil {
		t.Fatalf("unexpected failures: %v", err)
	}

	if len(res.Targets) != 3 {
		t.Fatalf("len(targets) = %d, want 3", len(res.Targets))
	}

	target, ok := res.Targets["linux/arm64"]
	if !ok {
		t.Fatal("linux/arm64 missing from mapping")
	}
	if target.Package == nil || target.Shell == nil {
		t.Fatal("target missing package or shell recipe")
	}
	if target.Package.Toolchain.Ref != "toolchains/rust/1.76.0/linux-arm64" {
		t.Fatalf("toolchain ref = %q", target.Package.Toolchain.Ref)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	req := newRequest(t, "linux/amd64", "darwin/arm64")

	first, err := Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different mappings")
	}
}

func TestEvaluateWorkerCountInvariance(t *testing.T) {
	req := newRequest(t, "linux/amd64", "linux/arm64", "darwin/arm64", "darwin/amd64")

	req.Workers = 1
	serial, err := Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	req.Workers = 8
	parallel, err := Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !reflect.DeepEqual(serial, parallel) {
		t.Fatal("result depends on parallelism degree")
	}
}

func TestEvaluatePartialFailureIsolation(t *testing.T) {
	req := newRequest(t, "linux/amd64", "darwin/arm64", "linux/arm64")
	req.Package.RuntimeLibs = []string{"openssl", "linux-syms"}

	res, err := Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	// linux-syms is constrained to linux, so only darwin/arm64 fails.
	if len(res.Targets) != 2 {
		t.Fatalf("len(targets) = %d, want 2", len(res.Targets))
	}
	if _, ok := res.Targets["linux/amd64"]; !ok {
		t.Fatal("linux/amd64 entry lost")
	}
	if _, ok := res.Targets["linux/arm64"]; !ok {
		t.Fatal("linux/arm64 entry lost")
	}

	if len(res.Failures) != 1 {
		t.Fatalf("len(failures) = %d, want 1", len(res.Failures))
	}
	f := res.Failures[0]
	if f.Platform != "darwin/arm64" {
		t.Fatalf("failure platform = %q", f.Platform)
	}
	if !errors.Is(f, recipe.ErrUnresolvedDependency) {
		t.Fatalf("failure = %v, want ErrUnresolvedDependency", f)
	}
	if !strings.Contains(f.Error(), "linux-syms") {
		t.Fatalf("failure %q does not name the missing entry", f)
	}

	if res.Err() == nil {
		t.Fatal("Err() = nil despite failure")
	}
}

func TestEvaluateToolchainUnavailable(t *testing.T) {
	req := newRequest(t, "linux/amd64")
	req.Channel = "beta-latest"

	res, err := Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if len(res.Failures) != 1 {
		t.Fatalf("len(failures) = %d, want 1", len(res.Failures))
	}
	if !errors.Is(res.Failures[0], toolchain.ErrUnavailable) {
		t.Fatalf("failure = %v, want ErrUnavailable", res.Failures[0])
	}
}

func TestEvaluateEmptyPlatforms(t *testing.T) {
	req := newRequest(t)

	res, err := Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Targets) != 0 || len(res.Failures) != 0 {
		t.Fatalf("want empty mapping, got %d targets, %d failures", len(res.Targets), len(res.Failures))
	}
	if res.Err() != nil {
		t.Fatalf("Err() = %v, want nil", res.Err())
	}
}

func TestEvaluateCancelled(t *testing.T) {
	req := newRequest(t, "linux/amd64", "linux/arm64")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Evaluate(ctx, req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	// Abandoned platforms are neither successes nor failures.
	if len(res.Targets) != 0 || len(res.Failures) != 0 {
		t.Fatalf("abandoned evaluation produced %d targets, %d failures", len(res.Targets), len(res.Failures))
	}
}

func TestEvaluateInvalidRequest(t *testing.T) {
	_, err := Evaluate(context.Background(), Request{})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestShellMappingGolden(t *testing.T) {
	req := newRequest(t, "linux/amd64")
	req.Overlays = nil
	req.Base = mustGoldenSource(t)

	res, err := Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if err := res.Err(); err != nil {
		t.Fatalf("unexpected failures: %v", err)
	}

	data, err := json.MarshalIndent(res.Recipes(recipe.KindShell), "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "shell_mapping", data)
}

// A self-contained source for the golden test: package refs and toolchain in
// one document so the emitted JSON is stable.
func mustGoldenSource(t *testing.T) *index.Source {
	t.Helper()
	src, err := index.ParseSource("pkgs", []byte(baseHCL+overlayHCL))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	return src
}
