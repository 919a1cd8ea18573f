package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafflog/cafflog-api/internal/catalog"
	"github.com/cafflog/cafflog-api/internal/mocks"
)

func TestEstimateDrink(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	estimateRequest := func(body string) *http.Request {
		return authedRequest(
			http.MethodPost, "/api/drinks/estimate", strings.NewReader(body), userID)
	}

	t.Run("success prefills the current wall clock", func(t *testing.T) {
		t.Parallel()

		estimator := &mocks.MockDrinkEstimator{
			Estimate: &catalog.DrinkEstimate{Drink: "Cold Brew Coffee", EstimatedMg: 200},
		}
		h := NewDrinkHandler(estimator)
		h.now = func() time.Time {
			return time.Date(2024, 3, 10, 14, 5, 0, 0, time.UTC)
		}

		w := httptest.NewRecorder()
		h.EstimateDrink(w, estimateRequest(`{"description":"large cold brew"}`))

		require.Equal(t, http.StatusOK, w.Code)

		var resp DrinkEstimateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Cold Brew Coffee", resp.Drink)
		assert.InDelta(t, 200.0, resp.EstimatedMg, 0.0001)
		assert.Equal(t, "03/10", resp.DoseDate)
		assert.Equal(t, "14:05", resp.DoseTime)
	})

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()

		h := NewDrinkHandler(nil)

		w := httptest.NewRecorder()
		h.EstimateDrink(w, estimateRequest(`{"description":"large cold brew"}`))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "Drink estimation is not configured", decodeError(t, w.Body).Error)
	})

	t.Run("estimator failures", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantError  string
		}{
			{
				name:       "content blocked",
				err:        catalog.ErrContentBlocked,
				wantStatus: http.StatusUnprocessableEntity,
				wantError:  "Description was rejected by the content filter",
			},
			{
				name:       "invalid model response",
				err:        catalog.ErrInvalidResponse,
				wantStatus: http.StatusBadGateway,
				wantError:  "Estimation service returned an invalid response",
			},
			{
				name:       "transient failure",
				err:        catalog.ErrTransientFailure,
				wantStatus: http.StatusBadGateway,
				wantError:  "Estimation service is temporarily unavailable",
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				h := NewDrinkHandler(&mocks.MockDrinkEstimator{Err: tc.err})

				w := httptest.NewRecorder()
				h.EstimateDrink(w, estimateRequest(`{"description":"mystery drink"}`))

				assert.Equal(t, tc.wantStatus, w.Code)
				assert.Equal(t, tc.wantError, decodeError(t, w.Body).Error)
			})
		}
	})

	t.Run("rejects blank descriptions without calling the estimator", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		estimator := &mocks.MockDrinkEstimator{
			EstimateDrinkFn: func(
				ctx context.Context, description string,
			) (*catalog.DrinkEstimate, error) {
				calls.Add(1)
				return &catalog.DrinkEstimate{Drink: "Water", EstimatedMg: 0}, nil
			},
		}
		h := NewDrinkHandler(estimator)

		tests := []struct {
			name      string
			body      string
			wantError string
		}{
			{
				name:      "missing description",
				body:      `{}`,
				wantError: "Invalid Description: required field",
			},
			{
				name:      "whitespace only",
				body:      `{"description":"   "}`,
				wantError: "Description must not be empty",
			},
			{
				name:      "too long",
				body:      `{"description":"` + strings.Repeat("x", 501) + `"}`,
				wantError: "Invalid Description: too long",
			},
			{
				name:      "malformed JSON",
				body:      `{"description": }`,
				wantError: "Invalid request format",
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				w := httptest.NewRecorder()
				h.EstimateDrink(w, estimateRequest(tc.body))

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, tc.wantError, decodeError(t, w.Body).Error)
			})
		}

		assert.Zero(t, calls.Load(), "rejected requests must not reach the estimator")
	})

	t.Run("zero caffeine estimates pass through", func(t *testing.T) {
		t.Parallel()

		estimator := &mocks.MockDrinkEstimator{
			Estimate: &catalog.DrinkEstimate{Drink: "Chamomile Tea", EstimatedMg: 0},
		}
		h := NewDrinkHandler(estimator)

		w := httptest.NewRecorder()
		h.EstimateDrink(w, estimateRequest(`{"description":"chamomile tea"}`))

		require.Equal(t, http.StatusOK, w.Code)

		var resp DrinkEstimateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Chamomile Tea", resp.Drink)
		assert.Zero(t, resp.EstimatedMg)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		h := NewDrinkHandler(&mocks.MockDrinkEstimator{})

		req := httptest.NewRequest(
			http.MethodPost, "/api/drinks/estimate",
			strings.NewReader(`{"description":"large cold brew"}`))
		w := httptest.NewRecorder()

		h.EstimateDrink(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
