package toolchain

import (
	"errors"
	"reflect"
	"testing"

	"github.com/containerd/errdefs"

	"github.com/pinionhq/pinion/internal/index"
	"github.com/pinionhq/pinion/internal/platform"
)

const sourceHCL = `
toolchain "rust" {
  track   = "stable"
  version = "1.75.0"
  ref     = "toolchains/rust/1.75.0/${platform.os}-${platform.arch}"
  tools   = ["rustc", "cargo"]
}

toolchain "rust" {
  track   = "stable"
  version = "1.76.0"
  ref     = "toolchains/rust/1.76.0/${platform.os}-${platform.arch}"
  tools   = ["rustc", "cargo"]
}

toolchain "rust" {
  track   = "nightly"
  version = "2024-01-15"
  ref     = "toolchains/rust/nightly-2024-01-15/${platform.os}-${platform.arch}"
  tools   = ["rustc", "cargo"]
}
`

func composedIndex(t *testing.T) *index.Index {
	t.Helper()

	src, err := index.ParseSource("pkgs", []byte(sourceHCL))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}

	p, err := platform.Parse("linux/amd64")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ix, err := index.Compose(src, nil, p)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	return ix
}

func TestParseChannel(t *testing.T) {
	ch, err := ParseChannel("stable-latest")
	if err != nil {
		t.Fatalf("ParseChannel: %v", err)
	}
	if ch.Track != "stable" || ch.Version != Latest {
		t.Fatalf("channel = %+v", ch)
	}

	ch, err = ParseChannel("nightly-2024-01-15")
	if err != nil {
		t.Fatalf("ParseChannel: %v", err)
	}
	if ch.Track != "nightly" || ch.Version != "2024-01-15" {
		t.Fatalf("channel = %+v", ch)
	}

	if _, err := ParseChannel("stable"); err == nil {
		t.Fatal("expected error for channel without version selector")
	}
}

func TestSelectLatest(t *testing.T) {
	d, err := Select(composedIndex(t), "rust", "stable-latest", nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if d.Version != "1.76.0" {
		t.Fatalf("version = %q, want 1.76.0", d.Version)
	}
	if d.Ref != "toolchains/rust/1.76.0/linux-amd64" {
		t.Fatalf("ref = %q", d.Ref)
	}

	want := []string{"rustc", "cargo"}
	if !reflect.DeepEqual(d.Tools, want) {
		t.Fatalf("tools = %v, want %v", d.Tools, want)
	}
}

func TestSelectExactVersion(t *testing.T) {
	d, err := Select(composedIndex(t), "rust", "stable-1.75.0", nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if d.Version != "1.75.0" {
		t.Fatalf("version = %q, want 1.75.0", d.Version)
	}
}

func TestSelectNightly(t *testing.T) {
	d, err := Select(composedIndex(t), "rust", "nightly-latest", nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if d.Version != "2024-01-15" {
		t.Fatalf("version = %q, want 2024-01-15", d.Version)
	}
}

func TestSelectUnavailable(t *testing.T) {
	ix := composedIndex(t)

	_, err := Select(ix, "rust", "beta-latest", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if !errdefs.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found class", err)
	}

	_, err = Select(ix, "zig", "stable-latest", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("missing axis: err = %v, want ErrUnavailable", err)
	}
}

func TestSelectValueEqual(t *testing.T) {
	ix := composedIndex(t)

	first, err := Select(ix, "rust", "stable-latest", []string{"rust-src", "clippy"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	second, err := Select(ix, "rust", "stable-latest", []string{"clippy", "rust-src"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	// Same inputs (extension order aside) yield value-equal descriptors.
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("descriptors differ: %+v vs %+v", first, second)
	}
}

func TestSelectExtensions(t *testing.T) {
	d, err := Select(composedIndex(t), "rust", "stable-latest", []string{"rust-src", "rust-src", "clippy"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	want := []string{"clippy", "rust-src"}
	if !reflect.DeepEqual(d.Extensions, want) {
		t.Fatalf("extensions = %v, want %v", d.Extensions, want)
	}
}
