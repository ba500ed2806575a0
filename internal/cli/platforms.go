package cli

import (
	"context"
	"fmt"

	"github.com/pinionhq/pinion/internal/descriptor"
	"github.com/pinionhq/pinion/internal/platform"
)

// Represents the 'pinion platforms' command.
type PlatformsCmd struct{}

// Executes the platforms command, printing each enumerated target platform
// on its own line.
func (c *PlatformsCmd) Run(ctx context.Context) error {
	desc, err := descriptor.Load(RootCmd.Descriptor)
	if err != nil {
		return err
	}

	targets, err := desc.TargetPlatforms()
	if err != nil {
		return err
	}

	for p := range platform.Enumerate(targets) {
		fmt.Println(platform.Format(p))
	}
	return nil
}
