package ir_test

import (
	"testing"

	"github.com/arbor-ir/arbor"
)

// newTestContext returns a context with all known dialects registered
// and unregistered operations tolerated. The context is torn down with
// the test.
func newTestContext(t *testing.T) *arbor.Context {
	t.Helper()
	registry := arbor.NewDialectRegistry()
	registry.RegisterAllDialects()
	ctx := arbor.NewContext(registry, false)
	registry.Destroy()
	ctx.SetAllowUnregisteredDialects(true)
	t.Cleanup(ctx.Destroy)
	return ctx
}
