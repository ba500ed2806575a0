package index

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrInvalidSource   = fmt.Errorf("invalid index source: %w", errdefs.ErrInvalidArgument)
	ErrOverlayConflict = fmt.Errorf("overlay conflict: %w", errdefs.ErrConflict)
)
