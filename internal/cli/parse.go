package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewParseCommand creates the parse command: syntax- and verify-check a
// source file.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse and verify an IR source file",
		Long: `Parse an IR source file as a module and run the verifier over it.
Exits non-zero when the file does not parse or does not verify.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runParse(opts *RootOptions, cmd *cobra.Command, path string) error {
	logger, err := opts.Logger()
	if err != nil {
		return WrapExitError(ExitCommandError, "logger setup failed", err)
	}
	defer logger.Sync()

	logger.Debug("parsing", zap.String("path", path))
	ctx, m, err := parseModuleFile(opts.FS, path)
	if err != nil {
		return err
	}
	defer ctx.Destroy()
	defer m.Destroy()

	if m.AsOperation().Verify().Failed() {
		return NewExitError(ExitFailure, "verification failed: "+path)
	}

	logger.Debug("parsed",
		zap.String("path", path),
		zap.Int("loaded_dialects", ctx.NumLoadedDialects()))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
	return nil
}
