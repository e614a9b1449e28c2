package observability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_Healthz(t *testing.T) {
	rec := get(t, NewHandler(NewMetrics(), nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandler_Metrics(t *testing.T) {
	m := NewMetrics()
	m.RecordGame(domain.ModeManVsMan, "exited")

	rec := get(t, NewHandler(m, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tictac_games_total{mode="man-vs-man",outcome="exited"} 1`)
}

func TestHandler_State(t *testing.T) {
	m := NewMetrics()

	rec := get(t, NewHandler(m, nil), "/state")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, NewHandler(m, func() any { return nil }), "/state")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	snap := map[string]any{"state": "playing", "moves": []int{5}}
	rec = get(t, NewHandler(m, func() any { return snap }), "/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "playing", got["state"])
}

func TestServer_ListenAndShutdown(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", NewHandler(NewMetrics(), nil))
	require.NoError(t, err)

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "ok"))

	assert.NoError(t, srv.Shutdown(context.Background()))
}
