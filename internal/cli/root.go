package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool

	// FS is the filesystem commands read sources and pipelines from.
	// Defaults to the OS filesystem; tests substitute an in-memory one.
	FS afero.Fs
}

// Logger builds the CLI logger. Diagnostics go to stderr; verbose mode
// lowers the level to debug.
func (o *RootOptions) Logger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if o.Verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

// NewRootCommand creates the root command for the arbor CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{FS: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "arbor",
		Short: "arbor - IR parsing, printing, and pass pipelines",
		Long: `Parse IR source files, print them in generic form, and run
pass pipelines over them.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}
