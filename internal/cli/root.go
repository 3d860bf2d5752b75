package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev" // set with -ldflags "-X github.com/benoitkugler/svgconv/internal/cli.version=..."

// Execute runs the svgconv CLI. `ctx` is canceled on interruption,
// in which case the returned error wraps context.Canceled.
//
// Logging goes to stderr, at info level, or debug level with --verbose.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "svgconv",
		Short:        "svgconv converts SVG files to PNG images",
		Long:         `svgconv rasterizes SVG files or whole folders to PNG, at a scale of their intrinsic size or at an exact size, stretched or cropped.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("svgconv %s\n", version))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSizeCmd())
	root.AddCommand(newCountCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newWatchCmd())

	return root
}
