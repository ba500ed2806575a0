package internal

import (
	"fmt"
	"runtime"
	"strings"
)

// Name used for the binary, directories, and logger group.
const Name = "pinion"

// String to indicate an undefined variable
const defaultUndefined = "(undefined)"

// String to indicate a local (non-pipeline) build
const defaultLocalBuild = "(local)"

var (
	version   = "" // Version number (e.g., "1.2.3")
	gitCommit = "" // Git commit hash (e.g., "a1b2c3d4")

	rawQuiet   = "false" // Whether to enable quiet mode
	rawDebug   = "false" // Whether to enable debug mode
	rawVerbose = "false" // Whether to enable verbose logging
)

// Returns the current version.
//
// If the version is not set, returns "(undefined)". A "v" or "V" prefix
// (e.g., "v1.0.0") is stripped.
func Version() string {
	v := strings.TrimSpace(version)
	if v == "" {
		return defaultUndefined
	}
	return strings.TrimPrefix(strings.ToLower(v), "v")
}

// Returns the git commit hash.
//
// If the commit hash is not set, returns "(undefined)".
func GitCommit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return defaultUndefined
	}
	return c
}

// Returns the build architecture.
func Arch() string {
	return runtime.GOARCH
}

// Returns true if this is a local (non-pipeline) build.
//
// A build is considered local if the version or git commit variables are
// unset. Pipeline builds should set both via linker flags.
func IsLocal() bool {
	return strings.TrimSpace(version) == "" || strings.TrimSpace(gitCommit) == ""
}

// Returns a detailed version string.
//
// If this is a local build, returns "(local)". Otherwise, returns a string
// formatted as "<version> <git-commit> [<arch>]".
func VersionString() string {
	if IsLocal() {
		return defaultLocalBuild
	}
	return fmt.Sprintf("%s %s [%s]", Version(), GitCommit(), Arch())
}
