package recipe

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var ErrUnresolvedDependency = fmt.Errorf("unresolved dependency: %w", errdefs.ErrNotFound)
