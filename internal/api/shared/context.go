// Package shared provides helpers used across all API handlers: request
// decoding and validation, standardized JSON responses, and the context
// keys that carry per-request values such as the trace ID and the
// authenticated user ID.
package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

// ContextKey is the type for context keys defined by the API layer. Using a
// named type prevents collisions with keys from other packages.
type ContextKey string

const (
	// UserIDContextKey is the context key under which the authentication
	// middleware stores the authenticated user's ID (a uuid.UUID).
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey is the context key under which the trace middleware stores
	// the request's trace ID (a string).
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID. The hex
	// encoding doubles it, so trace IDs are 32 characters long.
	TraceIDLength = 16
)

// SetTraceID generates a new trace ID and returns a context carrying it.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID returns the trace ID carried by ctx, or an empty string when
// the context carries none.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// generateTraceID returns a random hex-encoded trace ID. If the system
// random source fails it falls back to a time-based ID rather than
// degrading request handling.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if n, err := rand.Read(b); err != nil || n != TraceIDLength {
		return generateFallbackTraceID()
	}
	return hex.EncodeToString(b)
}

// fallbackCounter disambiguates fallback trace IDs generated within the
// same nanosecond.
var fallbackCounter atomic.Uint64

// generateFallbackTraceID builds a trace ID from the current time and a
// process-local counter. The result has the same length and alphabet as a
// random trace ID but is not cryptographically random.
func generateFallbackTraceID() string {
	var b [TraceIDLength]byte
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint64(b[8:], fallbackCounter.Add(1))
	return hex.EncodeToString(b[:])
}
