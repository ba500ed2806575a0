package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "pinion"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the local input store, where the external fetcher materializes
// pinned inputs by lock name.
//
//	Linux:   $XDG_DATA_HOME/pinion/store or ~/.local/share/pinion/store
//	macOS:   ~/Library/Application Support/pinion/store
func Store() string {
	return filepath.Join(xdg.DataHome, toolName, "store")
}

// Default path for emitted recipe mappings.
//
//	Linux:   $XDG_STATE_HOME/pinion/out or ~/.local/state/pinion/out
//	macOS:   ~/Library/Application Support/pinion/out
func Output() string {
	return filepath.Join(xdg.StateHome, toolName, "out")
}
