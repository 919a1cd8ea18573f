package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cafflog/cafflog-api/internal/api/middleware"
	"github.com/cafflog/cafflog-api/internal/api/shared"
	"github.com/cafflog/cafflog-api/internal/config"
	"github.com/cafflog/cafflog-api/internal/domain/decay"
	"github.com/cafflog/cafflog-api/internal/platform/logger"
	"github.com/cafflog/cafflog-api/internal/redact"
	"github.com/cafflog/cafflog-api/internal/service"
)

// ResidualHandler handles HTTP endpoints for residual caffeine estimates:
// a one-shot snapshot and a live server-sent event stream.
type ResidualHandler struct {
	doseService     service.DoseService
	decayService    decay.Service
	tickInterval    time.Duration
	refreshInterval time.Duration
}

// NewResidualHandler creates a new ResidualHandler. The stream config
// controls how often connected streams emit snapshots and reload entries
// from storage.
func NewResidualHandler(
	doseService service.DoseService,
	decayService decay.Service,
	streamConfig config.StreamConfig,
) *ResidualHandler {
	return &ResidualHandler{
		doseService:     doseService,
		decayService:    decayService,
		tickInterval:    time.Duration(streamConfig.TickIntervalSeconds) * time.Second,
		refreshInterval: time.Duration(streamConfig.RefreshIntervalSeconds) * time.Second,
	}
}

// GetResidual handles GET /api/residual. It estimates the authenticated
// user's residual caffeine at the instant given by the optional RFC 3339
// "at" query parameter, defaulting to now.
func (h *ResidualHandler) GetResidual(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	at := time.Now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
				"Invalid 'at' timestamp, expected RFC 3339 format", err)
			return
		}
		at = parsed
	}

	snapshot, err := h.doseService.ResidualSnapshot(ctx, userID, at)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshot)
}

// StreamResidual handles GET /api/residual/stream. It holds the connection
// open and emits a residual snapshot as a server-sent event on every tick,
// so a client can watch the estimate decay in real time. The dose entries
// are reloaded from storage at a slower cadence; between reloads each tick
// only recomputes the decay curve.
func (h *ResidualHandler) StreamResidual(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	entries, err := h.doseService.ListDoses(ctx, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// First event goes out immediately so the client never waits a full
	// tick for its initial estimate.
	if err := writeResidualEvent(w, flusher, h.decayService.Snapshot(entries, time.Now())); err != nil {
		return
	}

	ticker := time.NewTicker(h.tickInterval)
	defer ticker.Stop()
	refresh := time.NewTicker(h.refreshInterval)
	defer refresh.Stop()

	log.Debug("residual stream opened",
		slog.String("user_id", userID.String()),
		slog.Int("entry_count", len(entries)))

	for {
		select {
		case <-ctx.Done():
			log.Debug("residual stream closed",
				slog.String("user_id", userID.String()))
			return

		case <-refresh.C:
			fresh, err := h.doseService.ListDoses(ctx, userID)
			if err != nil {
				// Keep serving from the last known entries; the next
				// refresh retries.
				log.Warn("failed to refresh dose entries for stream",
					slog.String("user_id", userID.String()),
					slog.String("error", redact.Error(err)))
				continue
			}
			entries = fresh

		case <-ticker.C:
			if err := writeResidualEvent(w, flusher, h.decayService.Snapshot(entries, time.Now())); err != nil {
				log.Debug("residual stream write failed, closing",
					slog.String("user_id", userID.String()),
					slog.String("error", redact.Error(err)))
				return
			}
		}
	}
}

// writeResidualEvent writes one snapshot as a server-sent event and
// flushes it to the client.
func writeResidualEvent(w io.Writer, flusher http.Flusher, snapshot decay.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: residual\ndata: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
