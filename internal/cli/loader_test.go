package cli

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "input.mlir", []byte("module {}"), 0o644))

	source, err := ReadSource(fs, "input.mlir")
	require.NoError(t, err)
	assert.Equal(t, "module {}", source)

	_, err = ReadSource(fs, "missing.mlir")
	assert.Error(t, err)
}

func TestParseModuleFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "input.mlir", []byte(`module {
  "dialect.op"() : () -> ()
}`), 0o644))

	ctx, m, err := parseModuleFile(fs, "input.mlir")
	require.NoError(t, err)
	defer ctx.Destroy()
	defer m.Destroy()

	op, ok := m.Body().FirstOperation()
	require.True(t, ok)
	assert.Equal(t, "dialect.op", op.Name().Value())
}

func TestParseModuleFileErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "broken.mlir", []byte("module {"), 0o644))

	_, _, err := parseModuleFile(fs, "broken.mlir")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, _, err = parseModuleFile(fs, "missing.mlir")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLoadPipeline(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "pipeline.yaml", []byte(`passes:
  - canonicalize
  - cse
`), 0o644))

	p, err := LoadPipeline(fs, "pipeline.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"canonicalize", "cse"}, p.Passes)
}

func TestLoadPipelineRejects(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unknown pass", "passes: [nosuch]\n"},
		{"no passes", "passes: []\n"},
		{"malformed yaml", "passes: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "pipeline.yaml", []byte(tc.content), 0o644))
			_, err := LoadPipeline(fs, "pipeline.yaml")
			assert.Error(t, err)
		})
	}

	fs := afero.NewMemMapFs()
	_, err := LoadPipeline(fs, "missing.yaml")
	assert.Error(t, err)
}
