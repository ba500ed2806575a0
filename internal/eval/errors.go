package eval

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var ErrInvalidRequest = fmt.Errorf("invalid evaluation request: %w", errdefs.ErrInvalidArgument)
