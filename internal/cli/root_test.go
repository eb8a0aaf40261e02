package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-ir/arbor/internal/runlog"
)

func TestRootCommandWiring(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "arbor", cmd.Name())

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "parse")
	assert.Contains(t, names, "print")
	assert.Contains(t, names, "run")

	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

// execute runs a subcommand against an in-memory filesystem and returns
// its stdout.
func execute(t *testing.T, fs afero.Fs, build func(*RootOptions) *cobra.Command, args ...string) (string, error) {
	t.Helper()
	opts := &RootOptions{FS: fs}
	cmd := build(opts)
	cmd.SetArgs(args)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "input.mlir", []byte("module {}"), 0o644))

	out, err := execute(t, fs, NewParseCommand, "input.mlir")
	require.NoError(t, err)
	assert.Equal(t, "input.mlir: ok\n", out)
}

func TestParseCommandRejectsMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "broken.mlir", []byte("module {"), 0o644))

	_, err := execute(t, fs, NewParseCommand, "broken.mlir")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, fs, NewParseCommand, "missing.mlir")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParseCommandRejectsUnverifiable(t *testing.T) {
	fs := afero.NewMemMapFs()
	// arith.addi requires two operands.
	require.NoError(t, afero.WriteFile(fs, "bad.mlir", []byte(`module {
  %0 = "arith.constant"() {value = 1 : i32} : () -> i32
  %1 = "arith.addi"(%0) : (i32) -> i32
}`), 0o644))

	_, err := execute(t, fs, NewParseCommand, "bad.mlir")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestPrintCommandCanonicalizesForm(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "input.mlir",
		[]byte(`module  {  "dialect.op"( ) : ( ) -> ( )  }`), 0o644))

	out, err := execute(t, fs, NewPrintCommand, "input.mlir")
	require.NoError(t, err)
	assert.Equal(t, "module {\n  \"dialect.op\"() : () -> ()\n}\n", out)
}

func TestRunCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "input.mlir", []byte(`module {
  %0 = "arith.constant"() {value = 1 : i32} : () -> i32
}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "pipeline.yaml",
		[]byte("passes: [canonicalize]\n"), 0o644))

	out, err := execute(t, fs, NewRunCommand, "--pipeline", "pipeline.yaml", "input.mlir")
	require.NoError(t, err)
	assert.Equal(t, "module {\n}\n", out)
}

func TestRunCommandRequiresPipeline(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "input.mlir", []byte("module {}"), 0o644))

	_, err := execute(t, fs, NewRunCommand, "input.mlir")
	assert.Error(t, err)
}

func TestRunCommandRecordsRunLog(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "input.mlir", []byte(`module {
  %0 = "arith.constant"() {value = 1 : i32} : () -> i32
}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "pipeline.yaml",
		[]byte("passes: [canonicalize, cse]\n"), 0o644))

	dbPath := filepath.Join(t.TempDir(), "runs.db")
	_, err := execute(t, fs, NewRunCommand,
		"--pipeline", "pipeline.yaml", "--db", dbPath, "input.mlir")
	require.NoError(t, err)

	store, err := runlog.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "input.mlir", runs[0].SourceName)
	assert.Equal(t, "canonicalize,cse", runs[0].Pipeline)
	assert.Equal(t, "success", runs[0].Result)
	assert.Equal(t, "module {\n}\n", runs[0].Output)
}
