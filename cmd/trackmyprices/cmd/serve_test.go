package cmd

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/varcodes/trackmyprices/internal/config"
	"github.com/varcodes/trackmyprices/internal/engine"
	"github.com/varcodes/trackmyprices/internal/events"
	notifyMocks "github.com/varcodes/trackmyprices/internal/notify/mocks"
	scrapeMocks "github.com/varcodes/trackmyprices/internal/scrape/mocks"
	storeMocks "github.com/varcodes/trackmyprices/internal/store/mocks"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewServer_Routes(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().Ping(mock.Anything).Return(nil).Maybe()

	a := &app{
		store:     ms,
		publisher: events.NoopPublisher{},
		engine:    engine.NewEngine(ms, scrapeMocks.NewMockScraper(t), notifyMocks.NewMockNotifier(t)),
	}
	cfg := &config.Config{Server: config.ServerConfig{TriggerToken: "s3cret"}}
	e := newServer(cfg, a, quietLogger())

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: "ok"},
		{method: http.MethodGet, path: "/readyz", wantStatus: http.StatusOK, wantBody: "ready"},
		{method: http.MethodGet, path: "/openapi.json", wantStatus: http.StatusOK, wantBody: "TrackMyPrices API"},
		{method: http.MethodGet, path: "/swagger", wantStatus: http.StatusMovedPermanently},
		{method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK, wantBody: "trackmyprices_"},
		{method: http.MethodPost, path: "/api/v1/cycle", wantStatus: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/v1/cycle", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, http.NoBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TMP_TEST_SMTP_PASSWORD=hunter2\n"), 0o600))

	t.Setenv("TMP_TEST_SMTP_PASSWORD", "")
	require.NoError(t, os.Unsetenv("TMP_TEST_SMTP_PASSWORD"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hunter2", os.Getenv("TMP_TEST_SMTP_PASSWORD"))

	require.NoError(t, loadEnvFile(filepath.Join(dir, "missing.env")), "a missing file is not an error")
	require.NoError(t, loadEnvFile(""))
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TMP_TEST_TOKEN=from-file\n"), 0o600))

	t.Setenv("TMP_TEST_TOKEN", "from-env")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-env", os.Getenv("TMP_TEST_TOKEN"))
}

func TestTelemetryConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Telemetry: config.TelemetryConfig{
		Enabled:     true,
		Endpoint:    "otel:4317",
		Insecure:    true,
		ServiceName: "trackmyprices",
	}}

	got := telemetryConfig(cfg)
	assert.True(t, got.Enabled)
	assert.Equal(t, "otel:4317", got.Endpoint)
	assert.True(t, got.Insecure)
	assert.Equal(t, Version, got.ServiceVersion)
}
