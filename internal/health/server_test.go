package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func TestHandleHealthReportsService(t *testing.T) {
	s := NewServer(Config{ServiceName: "props-admin", Version: "1.2.0"})

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "props-admin", resp.Service)
	assert.Equal(t, "1.2.0", resp.Version)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHandleReadyNotReadyByDefault(t *testing.T) {
	s := NewServer(Config{ServiceName: "props-admin"})

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "not_ready", resp.Checks["service"])
}

func TestHandleReadyAfterSetReady(t *testing.T) {
	s := NewServer(Config{ServiceName: "props-admin", DB: &fakePinger{}})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestHandleReadyDatabaseFailure(t *testing.T) {
	s := NewServer(Config{ServiceName: "props-admin", DB: &fakePinger{err: errors.New("connection refused")}})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Checks["database"], "connection refused")
}

func TestNewServerDefaults(t *testing.T) {
	s := NewServer(Config{ServiceName: "props-admin"})

	assert.Equal(t, 8090, s.port)
	assert.Equal(t, "/metrics", s.metricsPath)
	assert.False(t, s.IsReady())
}
