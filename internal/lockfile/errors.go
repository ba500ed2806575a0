package lockfile

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrInvalidLock  = fmt.Errorf("invalid lock file: %w", errdefs.ErrInvalidArgument)
	ErrUnknownInput = fmt.Errorf("unknown lock input: %w", errdefs.ErrNotFound)
	ErrHashMismatch = fmt.Errorf("content hash mismatch: %w", errdefs.ErrFailedPrecondition)
)
