package cli

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arbor-ir/arbor/internal/runlog"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Pipeline string
	Database string
	Watch    bool
}

// NewRunCommand creates the run command: apply a pass pipeline to a
// source file.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a pass pipeline over an IR source file",
		Long: `Parse an IR source file, run the configured pass pipeline over it,
and print the transformed module.

Example:
  arbor run --pipeline pipeline.yaml input.ir
  arbor run --pipeline pipeline.yaml --db runs.db --watch input.ir`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Pipeline, "pipeline", "", "path to YAML pipeline file (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (optional)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "re-run the pipeline when the source file changes")
	_ = cmd.MarkFlagRequired("pipeline")

	return cmd
}

func runPipeline(opts *RunOptions, cmd *cobra.Command, path string) error {
	logger, err := opts.Logger()
	if err != nil {
		return WrapExitError(ExitCommandError, "logger setup failed", err)
	}
	defer logger.Sync()

	pipeline, err := LoadPipeline(opts.FS, opts.Pipeline)
	if err != nil {
		return WrapExitError(ExitCommandError, "pipeline config failed", err)
	}

	var store *runlog.Store
	if opts.Database != "" {
		store, err = runlog.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "run log open failed", err)
		}
		defer store.Close()
	}

	if err := runOnce(opts, cmd, logger, pipeline, store, path); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return watchAndRun(opts, cmd, logger, pipeline, store, path)
}

// runOnce executes the pipeline against the current contents of path
// and, with a run log attached, records the outcome.
func runOnce(opts *RunOptions, cmd *cobra.Command, logger *zap.Logger,
	pipeline Pipeline, store *runlog.Store, path string) error {

	ctx, m, err := parseModuleFile(opts.FS, path)
	if err != nil {
		return err
	}
	defer ctx.Destroy()
	defer m.Destroy()

	pm := buildPassManager(ctx, pipeline)
	defer pm.Destroy()

	logger.Debug("running pipeline",
		zap.String("path", path),
		zap.Strings("passes", pipeline.Passes))

	result := pm.Run(m.AsOperation())
	output := m.String()

	if store != nil {
		run, err := store.WriteRun(cmd.Context(), runlog.Run{
			SourceName: path,
			Pipeline:   strings.Join(pipeline.Passes, ","),
			Result:     result.String(),
			Output:     output,
		})
		if err != nil {
			return WrapExitError(ExitCommandError, "run log write failed", err)
		}
		logger.Debug("run recorded", zap.String("id", run.ID), zap.Int64("seq", run.Seq))
	}

	if result.Failed() {
		return NewExitError(ExitFailure, "pipeline failed: "+path)
	}
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// watchAndRun re-runs the pipeline whenever the source file changes.
// Returns when the command context is cancelled.
func watchAndRun(opts *RunOptions, cmd *cobra.Command, logger *zap.Logger,
	pipeline Pipeline, store *runlog.Store, path string) error {

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "watcher setup failed", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return WrapExitError(ExitCommandError, "watch failed", err)
	}
	logger.Info("watching", zap.String("path", path))

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("source changed", zap.String("event", event.String()))
			if err := runOnce(opts, cmd, logger, pipeline, store, path); err != nil {
				// a broken edit should not stop the watch loop
				logger.Warn("run failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
