package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx), "fresh context should carry no trace ID")

	ctxWithTrace := SetTraceID(ctx)

	traceID := GetTraceID(ctxWithTrace)
	assert.NotEmpty(t, traceID)
	assert.Len(t, traceID, 2*TraceIDLength, "trace ID should be hex-encoded")

	// The original context must remain untouched.
	assert.Empty(t, GetTraceID(ctx))
}

func TestGetTraceIDWrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx), "non-string trace ID value should read as empty")
}

func TestGenerateTraceID(t *testing.T) {
	t.Parallel()

	const iterations = 1000
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		require.Len(t, id, 2*TraceIDLength)

		_, err := hex.DecodeString(id)
		require.NoError(t, err, "trace ID must be valid hex")

		assert.False(t, seen[id], "trace IDs must be unique")
		seen[id] = true
	}
}

func TestGenerateFallbackTraceID(t *testing.T) {
	t.Parallel()

	const iterations = 100
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id := generateFallbackTraceID()
		require.Len(t, id, 2*TraceIDLength)

		_, err := hex.DecodeString(id)
		require.NoError(t, err, "fallback trace ID must be valid hex")

		// The embedded counter makes consecutive IDs distinct even within
		// the same nanosecond.
		assert.False(t, seen[id], "fallback trace IDs must be unique")
		seen[id] = true
	}
}
