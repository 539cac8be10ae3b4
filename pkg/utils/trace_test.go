package utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceId(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceId(ctx))

	ctx = SetTraceId(ctx, "abc")
	assert.Equal(t, "abc", GetTraceId(ctx))
}

func TestEnsureTraceId(t *testing.T) {
	t.Run("generates when missing", func(t *testing.T) {
		ctx, id := EnsureTraceId(context.Background())
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, GetTraceId(ctx))
	})

	t.Run("keeps existing", func(t *testing.T) {
		ctx, id := EnsureTraceId(SetTraceId(context.Background(), "fixed"))
		assert.Equal(t, "fixed", id)
		assert.Equal(t, "fixed", GetTraceId(ctx))
	})
}

func TestRequestId(t *testing.T) {
	ctx := SetRequestId(context.Background(), `"req-1"`)
	assert.Equal(t, `"req-1"`, GetRequestId(ctx))
	assert.Empty(t, GetRequestId(context.Background()))
}
