package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arbor-ir/arbor/internal/core"
)

func TestLogicalResultRoundTrip(t *testing.T) {
	assert.Equal(t, Success, LogicalResultFromRaw(core.LogicalResultSuccess()))
	assert.Equal(t, Failure, LogicalResultFromRaw(core.LogicalResultFailure()))

	assert.True(t, Success.Succeeded())
	assert.False(t, Success.Failed())
	assert.True(t, Failure.Failed())

	assert.NotZero(t, Success.Raw().Value)
	assert.Zero(t, Failure.Raw().Value)

	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failure", Failure.String())
}
