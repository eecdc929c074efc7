package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matt-g-everett/ledtimeline/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedState stream.State

func (s fixedState) State() stream.State {
	return stream.State(s)
}

func newTestApi() (*Api, *stream.Controller, time.Time) {
	start := time.Unix(100, 0)
	ctrl := stream.NewController(10*time.Second, false, start)
	a := NewApi(ctrl, fixedState{Progress: 0.4, Frames: 12, Tracks: map[string]float64{"glow": 0.7}})
	a.now = func() time.Time { return start }
	return a, ctrl, start
}

func do(a *Api, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestState(t *testing.T) {
	a, _, _ := newTestApi()

	rec := do(a, http.MethodGet, "/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got stream.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 0.4, got.Progress)
	assert.Equal(t, int64(12), got.Frames)
	assert.Equal(t, map[string]float64{"glow": 0.7}, got.Tracks)
}

func TestSeek(t *testing.T) {
	a, ctrl, start := newTestApi()

	rec := do(a, http.MethodPost, "/seek?progress=0.75")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	p, _ := ctrl.Progress(start)
	assert.InDelta(t, 0.75, p, 1e-9)

	rec = do(a, http.MethodPost, "/seek?progress=half")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, bad := range []string{"NaN", "Inf", "-Inf"} {
		rec = do(a, http.MethodPost, "/seek?progress="+bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
	p, _ = ctrl.Progress(start)
	assert.InDelta(t, 0.75, p, 1e-9)

	rec = do(a, http.MethodGet, "/seek?progress=0.1")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestPausePlay(t *testing.T) {
	a, ctrl, _ := newTestApi()

	assert.Equal(t, http.StatusNoContent, do(a, http.MethodPost, "/pause").Code)
	assert.True(t, ctrl.Paused())

	assert.Equal(t, http.StatusNoContent, do(a, http.MethodPost, "/play").Code)
	assert.False(t, ctrl.Paused())
}

func TestServeStopsOnCancel(t *testing.T) {
	a, _, _ := newTestApi()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
