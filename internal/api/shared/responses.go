package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cafflog/cafflog-api/internal/platform/logger"
	"github.com/cafflog/cafflog-api/internal/redact"
)

// ErrorResponse is the standard JSON body for all error responses. The
// trace ID lets a client report a failure that can be correlated with the
// server logs.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// responseOptions holds optional behavior for error responses.
type responseOptions struct {
	elevateLogLevel bool
}

// ResponseOption configures how an error response is logged.
type ResponseOption func(*responseOptions)

// WithElevatedLogLevel logs a client error at WARN instead of DEBUG. Used
// for 4xx responses that deserve attention, such as failed login attempts.
func WithElevatedLogLevel() ResponseOption {
	return func(o *responseOptions) {
		o.elevateLogLevel = true
	}
}

// RespondWithJSON writes data as a JSON response with the given status
// code. Encoding failures are logged but cannot be reported to the client
// because the status line has already been written.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path))
	}
}

// RespondWithError writes a standard error response with the given status
// code and message. The trace ID is taken from the request context when
// present.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithErrorAndLog writes a standard error response and logs the
// underlying error. The error details are redacted and never sent to the
// client; only the safe message is.
//
// Server errors log at ERROR, rate limiting at WARN, and other client
// errors at DEBUG unless elevated with WithElevatedLogLevel. The request
// logger attached by the trace middleware already carries the trace ID.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	err error,
	opts ...ResponseOption,
) {
	options := responseOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	log := logger.FromContext(r.Context())

	logFn := log.Debug
	switch {
	case status >= http.StatusInternalServerError:
		logFn = log.Error
	case status == http.StatusTooManyRequests:
		logFn = log.Warn
	case options.elevateLogLevel:
		logFn = log.Warn
	}

	logFn(message,
		slog.Int("status", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.String("error", redact.Error(err)))

	RespondWithError(w, r, status, message)
}
