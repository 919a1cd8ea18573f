package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafflog/cafflog-api/internal/config"
	"github.com/cafflog/cafflog-api/internal/domain"
	"github.com/cafflog/cafflog-api/internal/domain/decay"
	"github.com/cafflog/cafflog-api/internal/mocks"
	"github.com/cafflog/cafflog-api/internal/service"
)

func newTestResidualHandler(t *testing.T) (*ResidualHandler, *mocks.MockDoseStore) {
	t.Helper()

	doseStore := mocks.NewMockDoseStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	decayService := decay.NewDefaultService()

	doseService, err := service.NewDoseService(doseStore, decayService, log)
	require.NoError(t, err)

	h := NewResidualHandler(doseService, decayService, config.StreamConfig{
		TickIntervalSeconds:    1,
		RefreshIntervalSeconds: 30,
	})
	return h, doseStore
}

func TestGetResidual(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("reference scenario", func(t *testing.T) {
		t.Parallel()

		h, doseStore := newTestResidualHandler(t)
		seedDose(t, doseStore, userID, "03/10", "08:00", 100, time.Now())
		seedDose(t, doseStore, userID, "03/10", "14:00", 100, time.Now())

		req := authedRequest(
			http.MethodGet, "/api/residual?at=2024-03-10T14:00:00Z", nil, userID)
		w := httptest.NewRecorder()

		h.GetResidual(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var snap decay.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))

		// The 08:00 dose has decayed one half-life to 50 mg; the 14:00
		// dose still contributes its full 100 mg.
		assert.InDelta(t, 150.0, snap.ResidualMg, 0.0001)
		assert.Equal(t, decay.LevelHigh, snap.Level)
		assert.Equal(t, 2, snap.DoseCount)
		assert.True(t, snap.AsOf.Equal(time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)))
	})

	t.Run("doses after the estimate instant are ignored", func(t *testing.T) {
		t.Parallel()

		h, doseStore := newTestResidualHandler(t)
		seedDose(t, doseStore, userID, "03/10", "08:00", 100, time.Now())
		seedDose(t, doseStore, userID, "03/10", "14:00", 100, time.Now())

		req := authedRequest(
			http.MethodGet, "/api/residual?at=2024-03-10T10:00:00Z", nil, userID)
		w := httptest.NewRecorder()

		h.GetResidual(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var snap decay.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))

		// Only the 08:00 dose counts toward the residual, two hours into
		// its decay; the count still reports both entries.
		assert.InDelta(t, 79.37, snap.ResidualMg, 0.01)
		assert.Equal(t, decay.LevelModerate, snap.Level)
		assert.Equal(t, 2, snap.DoseCount)
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		h, _ := newTestResidualHandler(t)

		req := authedRequest(
			http.MethodGet, "/api/residual?at=2024-03-10T14:00:00Z", nil, userID)
		w := httptest.NewRecorder()

		h.GetResidual(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var snap decay.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Zero(t, snap.ResidualMg)
		assert.Equal(t, decay.LevelMinimal, snap.Level)
		assert.Zero(t, snap.DoseCount)
	})

	t.Run("defaults to now", func(t *testing.T) {
		t.Parallel()

		h, _ := newTestResidualHandler(t)

		req := authedRequest(http.MethodGet, "/api/residual", nil, userID)
		w := httptest.NewRecorder()

		h.GetResidual(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var snap decay.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.WithinDuration(t, time.Now(), snap.AsOf, 5*time.Second)
	})

	t.Run("invalid at parameter", func(t *testing.T) {
		t.Parallel()

		h, _ := newTestResidualHandler(t)

		req := authedRequest(http.MethodGet, "/api/residual?at=yesterday", nil, userID)
		w := httptest.NewRecorder()

		h.GetResidual(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t,
			"Invalid 'at' timestamp, expected RFC 3339 format",
			decodeError(t, w.Body).Error)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		h, _ := newTestResidualHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/residual", nil)
		w := httptest.NewRecorder()

		h.GetResidual(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		h, doseStore := newTestResidualHandler(t)
		doseStore.ListError = assert.AnError

		req := authedRequest(http.MethodGet, "/api/residual", nil, userID)
		w := httptest.NewRecorder()

		h.GetResidual(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// parseSSEEvents extracts the snapshots from the data lines of a
// server-sent event body.
func parseSSEEvents(t *testing.T, body string) []decay.Snapshot {
	t.Helper()

	var snaps []decay.Snapshot
	for _, line := range strings.Split(body, "\n") {
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var snap decay.Snapshot
		require.NoError(t, json.Unmarshal([]byte(data), &snap))
		snaps = append(snaps, snap)
	}
	return snaps
}

func TestStreamResidual(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("emits snapshots until the client disconnects", func(t *testing.T) {
		t.Parallel()

		h, doseStore := newTestResidualHandler(t)
		h.tickInterval = 5 * time.Millisecond
		h.refreshInterval = 50 * time.Millisecond

		// A dose logged at the current wall-clock minute has barely
		// decayed, so the residual sits just under the full amount.
		now := time.Now()
		seedDose(t, doseStore, userID,
			now.Format(domain.DoseDateLayout), now.Format(domain.DoseTimeLayout), 150, now)

		req := authedRequest(http.MethodGet, "/api/residual/stream", nil, userID)
		ctx, cancel := context.WithTimeout(req.Context(), 60*time.Millisecond)
		defer cancel()
		req = req.WithContext(ctx)

		w := httptest.NewRecorder()
		h.StreamResidual(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
		assert.True(t, w.Flushed, "events must be flushed as they are written")

		body := w.Body.String()
		assert.GreaterOrEqual(t, strings.Count(body, "event: residual"), 2,
			"initial event plus at least one tick")

		snaps := parseSSEEvents(t, body)
		require.NotEmpty(t, snaps)
		for _, snap := range snaps {
			assert.InDelta(t, 150.0, snap.ResidualMg, 1.0)
			assert.Equal(t, decay.LevelHigh, snap.Level)
		}
	})

	t.Run("keeps serving when a refresh fails", func(t *testing.T) {
		t.Parallel()

		h, doseStore := newTestResidualHandler(t)
		h.tickInterval = 5 * time.Millisecond
		h.refreshInterval = 10 * time.Millisecond

		entry, err := domain.NewDoseEntry(userID, "03/10", "08:00", 95)
		require.NoError(t, err)

		var listCalls atomic.Int32
		doseStore.ListByUserFn = func(
			ctx context.Context, id uuid.UUID,
		) ([]domain.DoseEntry, error) {
			if listCalls.Add(1) == 1 {
				return []domain.DoseEntry{*entry}, nil
			}
			return nil, errors.New("database gone away")
		}

		req := authedRequest(http.MethodGet, "/api/residual/stream", nil, userID)
		ctx, cancel := context.WithTimeout(req.Context(), 60*time.Millisecond)
		defer cancel()
		req = req.WithContext(ctx)

		w := httptest.NewRecorder()
		h.StreamResidual(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.GreaterOrEqual(t, listCalls.Load(), int32(2), "refresh must have been attempted")
		assert.GreaterOrEqual(t, strings.Count(w.Body.String(), "event: residual"), 2,
			"stream must keep ticking from the last known entries")
	})

	t.Run("requires flush support", func(t *testing.T) {
		t.Parallel()

		h, _ := newTestResidualHandler(t)

		req := authedRequest(http.MethodGet, "/api/residual/stream", nil, userID)
		w := &noFlushResponseWriter{}

		h.StreamResidual(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.code)
		assert.Contains(t, w.body.String(), "Streaming not supported")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		h, _ := newTestResidualHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/residual/stream", nil)
		w := httptest.NewRecorder()

		h.StreamResidual(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// noFlushResponseWriter is a ResponseWriter that deliberately does not
// implement http.Flusher.
type noFlushResponseWriter struct {
	header http.Header
	code   int
	body   bytes.Buffer
}

func (w *noFlushResponseWriter) Header() http.Header {
	if w.header == nil {
		w.header = http.Header{}
	}
	return w.header
}

func (w *noFlushResponseWriter) WriteHeader(code int) {
	w.code = code
}

func (w *noFlushResponseWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}
