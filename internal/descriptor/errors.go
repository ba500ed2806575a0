package descriptor

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var ErrInvalidDescriptor = fmt.Errorf("invalid descriptor: %w", errdefs.ErrInvalidArgument)
