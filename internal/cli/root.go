package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/setanarut/boxstack"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

// NewRootCmd assembles the command tree. Output goes to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "boxstack",
		Short: "Turn an image into stacked colour layers for multi-material printing",
		Long: `boxstack quantizes an image to a small palette, stacks one layer per
colour and merges each layer into axis-aligned boxes. The result is written
as one STL file per layer plus a JSON report.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			boxstack.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	root.SetVersionTemplate(fmt.Sprintf(
		"boxstack %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
	root.AddCommand(newBuildCmd(), newPaletteCmd(), newInspectCmd())
	return root
}

func Execute() error {
	root := NewRootCmd(os.Stdout)
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "boxstack: %v\n", err)
	}
	return err
}
