package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot-router/internal/config"
	"depot-router/internal/handlers"
	"depot-router/internal/metrics"
	"depot-router/internal/sqlite"
	"depot-router/internal/testutil"
)

func setupTestServer(t *testing.T) *httptest.Server {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Runs().Create(context.Background(), testutil.SampleRun("run-1", time.Now()))
	require.NoError(t, err)

	metrics.RegisterDefault()
	h := &handlers.Handler{DB: db, Defaults: config.Default(), Observer: metrics.EngineObserver{}}
	srv := httptest.NewServer(loggingMiddleware(corsMiddleware(setupRoutes(h))))
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/api/v1/health", http.StatusOK},
		{"GET", "/api/v1/runs", http.StatusOK},
		{"GET", "/api/v1/runs/run-1", http.StatusOK},
		{"GET", "/api/v1/runs/run-1/geojson", http.StatusOK},
		{"GET", "/api/v1/runs/missing", http.StatusNotFound},
		{"GET", "/api/v1/runs/", http.StatusNotFound},
		{"PUT", "/api/v1/runs", http.StatusMethodNotAllowed},
		{"OPTIONS", "/api/v1/runs", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/runs/run-1")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body.String(), `http_requests_total{method="GET",path="/api/v1/runs/{id}",status="200"}`)
}

func TestCORSAllowsLocalhostOnly(t *testing.T) {
	srv := setupTestServer(t)

	req, err := http.NewRequest("GET", srv.URL+"/api/v1/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://example.com")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsPath(t *testing.T) {
	assert.Equal(t, "/api/v1/runs", metricsPath("/api/v1/runs"))
	assert.Equal(t, "/api/v1/runs/", metricsPath("/api/v1/runs/"))
	assert.Equal(t, "/api/v1/runs/{id}", metricsPath("/api/v1/runs/abc"))
	assert.Equal(t, "/api/v1/runs/{id}/geojson", metricsPath("/api/v1/runs/abc/geojson"))
	assert.Equal(t, "/metrics", metricsPath("/metrics"))
}

func TestServerLifecycle(t *testing.T) {
	srv, err := New(Config{
		Addr:     "127.0.0.1:0",
		DBPath:   filepath.Join(t.TempDir(), "runs.db"),
		Defaults: config.Default(),
	})
	require.NoError(t, err)

	addr, err := srv.Start()
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}
