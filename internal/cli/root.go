package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/pinionhq/pinion/internal"
)

// Represents the root command for the pinion CLI.
var RootCmd struct {
	Quiet      bool   `short:"q" help:"Suppress informational output."`
	Verbose    bool   `short:"v" help:"Enable verbose output."`
	Debug      bool   `short:"d" help:"Enable debug output."`
	Descriptor string `short:"f" help:"Path to the project descriptor." default:"pinion.hcl" placeholder:"PATH"`
	Lock       string `short:"l" help:"Path to the lock file." default:"pinion.lock.json" placeholder:"PATH"`
	Store      string `short:"s" help:"Override the default input store directory." placeholder:"DIR"`

	Build     BuildCmd     `cmd:"" help:"Evaluate package build recipes."`
	Shell     ShellCmd     `cmd:"" help:"Evaluate development shell recipes."`
	Platforms PlatformsCmd `cmd:"" help:"List the enumerated target platforms."`
	Version   VersionCmd   `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Evaluates a pinned, multi-platform build descriptor into reproducible recipes.\n\nRecipes are emitted for an external builder; pinion never fetches or compiles."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	})
	slog.SetDefault(slog.New(handler))
}
