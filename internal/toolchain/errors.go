package toolchain

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var ErrUnavailable = fmt.Errorf("toolchain unavailable: %w", errdefs.ErrNotFound)
