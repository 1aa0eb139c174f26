package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atmosdata/aeronet-dw-etl/internal/pipeline"
)

type fakeReporter struct {
	status pipeline.Status
}

func (f fakeReporter) Status() pipeline.Status { return f.status }

func newTestServer(status pipeline.Status) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", fakeReporter{status: status}, logger)
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(pipeline.Status{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestStatus(t *testing.T) {
	t.Run("running run answers 200", func(t *testing.T) {
		srv := newTestServer(pipeline.Status{
			State:        pipeline.StateRunning,
			RowsRead:     100,
			Observations: 550,
		})

		rec := get(t, srv, "/status")
		require.Equal(t, http.StatusOK, rec.Code)

		var got pipeline.Status
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, pipeline.StateRunning, got.State)
		assert.Equal(t, 100, got.RowsRead)
		assert.Equal(t, 550, got.Observations)
	})

	t.Run("failed run answers 500 with the error", func(t *testing.T) {
		srv := newTestServer(pipeline.Status{
			State: pipeline.StateFailed,
			Error: "connect warehouse: connection refused",
		})

		rec := get(t, srv, "/status")
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var got pipeline.Status
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, pipeline.StateFailed, got.State)
		assert.Contains(t, got.Error, "connection refused")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(pipeline.Status{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(pipeline.Status{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
