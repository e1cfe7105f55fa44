package debug_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/adapters/debug"
	"go.trai.ch/memo/internal/adapters/logger"
	"go.trai.ch/memo/internal/app"
)

type fakeRuntime struct {
	stats  app.Stats
	sweeps int
}

func (f *fakeRuntime) Stats() app.Stats { return f.stats }
func (f *fakeRuntime) ForceSweep() int {
	f.sweeps++
	return 3
}

func newTestServer(t *testing.T, runtime debug.Diagnosable) *httptest.Server {
	t.Helper()
	s := debug.NewServer("unused:0", runtime, logger.Nop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, &fakeRuntime{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Stats(t *testing.T) {
	runtime := &fakeRuntime{stats: app.Stats{
		ElementEntries: 4,
		LiveMounts:     2,
		ElementHits:    10,
	}}
	ts := newTestServer(t, runtime)

	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var stats app.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, runtime.stats, stats)
}

func TestServer_SweepIsPostOnly(t *testing.T) {
	runtime := &fakeRuntime{}
	ts := newTestServer(t, runtime)

	resp, err := http.Post(ts.URL+"/sweep", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body["evicted"])
	assert.Equal(t, 1, runtime.sweeps)

	get, err := http.Get(ts.URL + "/sweep")
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, get.StatusCode)
	assert.Equal(t, 1, runtime.sweeps)
}
