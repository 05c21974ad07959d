package httpapi_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/httpapi"
	"github.com/katalvlaran/xlranker/store"
)

func newServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	s, err := store.Open(store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	a := core.NewProteinPair(core.NewProtein("A", nil, ""), core.NewProtein("B", nil, ""))
	require.NoError(t, a.SetStatus(core.ParsimonyPrimarySelected))
	x := core.NewProteinPair(core.NewProtein("X", nil, ""), core.NewProtein("X", nil, ""))
	require.NoError(t, x.SetStatus(core.ParsimonyAmbiguous))

	run, err := s.SaveRun(context.Background(),
		store.Run{ID: "run-1", CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Seed: 3, Mode: "full"},
		[]*core.ProteinPair{a, x}, []float64{0.8, math.NaN(), 0.6})
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(s, nil), nil))
	t.Cleanup(srv.Close)
	return srv, run.ID
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestAPI_Health(t *testing.T) {
	srv, _ := newServer(t)
	var body map[string]string
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_Runs(t *testing.T) {
	srv, id := newServer(t)

	var runs []store.Run
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs", &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "full", runs[0].Mode)

	var run store.Run
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs/"+id, &run))
	assert.Equal(t, int64(3), run.Seed)

	require.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/runs/nope", nil))
}

func TestAPI_Pairs(t *testing.T) {
	srv, id := newServer(t)

	var pairs []store.PairRecord
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs/"+id+"/pairs", &pairs))
	require.Len(t, pairs, 2)

	pairs = nil
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs/"+id+"/pairs?status=PARSIMONY_AMBIGUOUS", &pairs))
	require.Len(t, pairs, 1)
	assert.Equal(t, "X+X", pairs[0].PairID)

	require.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/runs/"+id+"/pairs?status=BOGUS", nil))
	require.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/runs/nope/pairs", nil))
}

func TestAPI_AUC(t *testing.T) {
	srv, id := newServer(t)

	var body struct {
		RunID string     `json:"run_id"`
		AUCs  []*float64 `json:"aucs"`
		Mean  *float64   `json:"mean"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs/"+id+"/auc", &body))
	require.Len(t, body.AUCs, 3)
	require.NotNil(t, body.AUCs[0])
	assert.Nil(t, body.AUCs[1])
	require.NotNil(t, body.Mean)
	assert.InDelta(t, 0.7, *body.Mean, 1e-12)
}

func TestAPI_CORS(t *testing.T) {
	srv, _ := newServer(t)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, []string{"*", "http://localhost:3000"}, resp.Header.Get("Access-Control-Allow-Origin"))
}
