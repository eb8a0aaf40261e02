package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/arbor-ir/arbor"
	"github.com/arbor-ir/arbor/ir"
	"github.com/arbor-ir/arbor/pass"
)

// ReadSource reads an IR source file from the filesystem seam.
func ReadSource(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", errors.Wrapf(err, "read source %s", path)
	}
	return string(data), nil
}

// newContext builds a context with every bundled dialect registered and
// tolerance for unregistered dialects, the permissive setup the CLI
// wants for arbitrary input files.
func newContext() *arbor.Context {
	registry := arbor.NewDialectRegistry()
	defer registry.Destroy()
	registry.RegisterAllDialects()
	ctx := arbor.NewContext(registry, false)
	ctx.SetAllowUnregisteredDialects(true)
	return ctx
}

// parseModuleFile loads and parses path into a module owned by the
// returned context.
func parseModuleFile(fs afero.Fs, path string) (*arbor.Context, *ir.Module, error) {
	source, err := ReadSource(fs, path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "load failed", err)
	}
	ctx := newContext()
	m, ok := ir.ParseModule(ctx, source, path)
	if !ok {
		ctx.Destroy()
		return nil, nil, NewExitError(ExitFailure, "parse failed: "+path)
	}
	return ctx, m, nil
}

// Pipeline is the YAML pass-pipeline configuration for arbor run.
type Pipeline struct {
	Passes []string `yaml:"passes"`
}

// LoadPipeline reads and validates a pipeline file.
func LoadPipeline(fs afero.Fs, path string) (Pipeline, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Pipeline{}, errors.Wrapf(err, "read pipeline %s", path)
	}
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pipeline{}, errors.Wrapf(err, "parse pipeline %s", path)
	}
	if len(p.Passes) == 0 {
		return Pipeline{}, errors.Newf("pipeline %s names no passes", path)
	}
	for _, name := range p.Passes {
		if _, ok := passConstructors[name]; !ok {
			return Pipeline{}, errors.Newf("unknown pass %q", name)
		}
	}
	return p, nil
}

var passConstructors = map[string]func() *pass.Pass{
	"canonicalize":    pass.Canonicalizer,
	"cse":             pass.CSE,
	"strip-debuginfo": pass.StripDebugInfo,
}

// buildPassManager assembles the pipeline's passes into a manager.
func buildPassManager(ctx *arbor.Context, p Pipeline) *pass.PassManager {
	pm := pass.NewPassManager(ctx)
	for _, name := range p.Passes {
		pm.AddPass(passConstructors[name]())
	}
	return pm
}
