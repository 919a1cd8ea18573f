package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafflog/cafflog-api/internal/api"
	"github.com/cafflog/cafflog-api/internal/api/shared"
	"github.com/cafflog/cafflog-api/internal/config"
	"github.com/cafflog/cafflog-api/internal/domain"
	"github.com/cafflog/cafflog-api/internal/domain/decay"
	"github.com/cafflog/cafflog-api/internal/mocks"
	"github.com/cafflog/cafflog-api/internal/service"
	"github.com/cafflog/cafflog-api/internal/service/auth"
)

// newTestApplication assembles an application backed by in-memory mocks
// and a real JWT service, close enough to production wiring to exercise
// the full middleware and routing stack.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "error"},
		Auth: config.AuthConfig{
			JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
			TokenLifetimeMinutes:        60,
			RefreshTokenLifetimeMinutes: 1440,
		},
		Stream: config.StreamConfig{
			TickIntervalSeconds:    1,
			RefreshIntervalSeconds: 30,
		},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	jwtService, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)

	doseStore := mocks.NewMockDoseStore()
	decayService := decay.NewDefaultService()
	doseService, err := service.NewDoseService(doseStore, decayService, log)
	require.NoError(t, err)

	return &application{
		config:           cfg,
		logger:           log,
		userStore:        mocks.NewMockUserStore(),
		doseStore:        doseStore,
		jwtService:       jwtService,
		passwordVerifier: &mocks.MockPasswordVerifier{ShouldSucceed: true},
		decayService:     decayService,
		doseService:      doseService,
	}
}

// doJSON sends a JSON request, optionally with a bearer token, and
// returns the response. The caller closes the body.
func doJSON(
	t *testing.T,
	client *http.Client,
	method, url, token string,
	body interface{},
) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	require.NoError(t, resp.Body.Close())
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router, err := app.setupRouter()
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestProtectedRoutesRequireAuthentication(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router, err := app.setupRouter()
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	defer srv.Close()
	client := srv.Client()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/doses"},
		{http.MethodGet, "/api/doses"},
		{http.MethodDelete, "/api/doses/" + uuid.New().String()},
		{http.MethodGet, "/api/residual"},
		{http.MethodGet, "/api/residual/stream"},
		{http.MethodPost, "/api/drinks/estimate"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			resp := doJSON(t, client, route.method, srv.URL+route.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var errResp shared.ErrorResponse
			decodeInto(t, resp, &errResp)
			assert.Equal(t, "Authorization header required", errResp.Error)
		})
	}

	t.Run("garbage token is rejected", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodGet, srv.URL+"/api/doses",
			"not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var errResp shared.ErrorResponse
		decodeInto(t, resp, &errResp)
		assert.Equal(t, "Invalid token", errResp.Error)
	})

	t.Run("unknown routes respond 404", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodGet, srv.URL+"/api/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.NoError(t, resp.Body.Close())
	})
}

// TestRouterEndToEnd walks the whole API surface through the real
// router: register, log in, rotate tokens, log a dose, read it back,
// check the residual, and delete the dose again.
func TestRouterEndToEnd(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router, err := app.setupRouter()
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	defer srv.Close()
	client := srv.Client()

	credentials := map[string]interface{}{
		"email":    "drinker@example.com",
		"password": "correcthorsebatterystaple",
	}

	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/register", "", credentials)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered api.AuthResponse
	decodeInto(t, resp, &registered)
	require.NotEmpty(t, registered.AccessToken)
	require.NotEmpty(t, registered.RefreshToken)
	require.NotEqual(t, uuid.Nil, registered.UserID)

	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/login", "", credentials)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loggedIn api.AuthResponse
	decodeInto(t, resp, &loggedIn)
	require.Equal(t, registered.UserID, loggedIn.UserID)

	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/refresh", "",
		map[string]interface{}{"refresh_token": loggedIn.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var refreshed api.AuthResponse
	decodeInto(t, resp, &refreshed)
	require.NotEmpty(t, refreshed.AccessToken)
	token := refreshed.AccessToken

	// Stamp the dose with the current wall clock so the residual right
	// afterwards is still close to the full amount.
	now := time.Now()
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/doses", token,
		map[string]interface{}{
			"dose_date": now.Format(domain.DoseDateLayout),
			"dose_time": now.Format(domain.DoseTimeLayout),
			"amount_mg": 95.0,
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created domain.DoseEntry
	decodeInto(t, resp, &created)
	assert.Equal(t, registered.UserID, created.UserID)
	assert.Equal(t, 95.0, created.AmountMg)

	resp = doJSON(t, client, http.MethodGet, srv.URL+"/api/doses", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []domain.DoseEntry
	decodeInto(t, resp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].ID)

	resp = doJSON(t, client, http.MethodGet, srv.URL+"/api/residual", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snapshot decay.Snapshot
	decodeInto(t, resp, &snapshot)
	assert.InDelta(t, 95.0, snapshot.ResidualMg, 1.0)
	assert.Equal(t, decay.LevelModerate, snapshot.Level)

	// The drink endpoint is wired but the estimator is not configured.
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/drinks/estimate", token,
		map[string]interface{}{"description": "large cold brew"})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var errResp shared.ErrorResponse
	decodeInto(t, resp, &errResp)
	assert.Equal(t, "Drink estimation is not configured", errResp.Error)

	resp = doJSON(t, client, http.MethodDelete,
		srv.URL+"/api/doses/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp = doJSON(t, client, http.MethodGet, srv.URL+"/api/doses", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &entries)
	assert.Empty(t, entries)
}
