package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/observability"
	"github.com/matzehuels/modgraph/pkg/observability/metrics"
	"github.com/matzehuels/modgraph/pkg/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	srv := New(Config{
		Store:  st,
		Logger: log.New(io.Discard),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Build.Version)
}

func TestDecompose(t *testing.T) {
	ts, st := newTestServer(t)

	resp := post(t, ts.URL+"/v1/decompose", `{"groups":[0,1],"operations":[["A","B"],["B","A"]]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body DecomposeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, []string{"A -> B;B -> A", ""}, body.Report.Snapshots)
	require.Len(t, body.Report.Graph.Nodes, 1)
	assert.Equal(t, "BA", body.Report.Graph.Nodes[0].Label)
	assert.Equal(t, 2, body.Report.Graph.Nodes[0].MergeCount)

	stored, err := st.Get(context.Background(), body.RunID)
	require.NoError(t, err)
	assert.Equal(t, body.Report.Merges, stored.Merges)
}

func TestDecompose_Errors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   apperr.Code
	}{
		{"malformed body", `{"operations": [`, http.StatusBadRequest, apperr.ErrCodeInvalidFormat},
		{"unknown field", `{"rows": []}`, http.StatusBadRequest, apperr.ErrCodeInvalidFormat},
		{"no operations", `{}`, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"group out of range", `{"groups":[5],"operations":[["A"]]}`, http.StatusBadRequest, apperr.ErrCodeInvalidGroup},
		{"empty row", `{"operations":[[]]}`, http.StatusBadRequest, apperr.ErrCodeEmptySequence},
		{"bad label", `{"operations":[["a;b"]]}`, http.StatusBadRequest, apperr.ErrCodeInvalidLabel},
		{"iteration cap", `{"operations":[["A","B"],["B","A"]],"max_iterations":1}`, http.StatusUnprocessableEntity, apperr.ErrCodeIterationLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/decompose", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}
}

func TestRuns(t *testing.T) {
	ts, _ := newTestServer(t)

	var ids []string
	for _, body := range []string{
		`{"operations":[["A","B","C"]]}`,
		`{"operations":[["A","B","D"],["A","C","D"]]}`,
	} {
		resp := post(t, ts.URL+"/v1/decompose", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var dr DecomposeResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&dr))
		ids = append(ids, dr.RunID)
	}

	resp := get(t, ts.URL+"/v1/runs")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list RunsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list.Runs, 2)

	resp = get(t, ts.URL+"/v1/runs?limit=1")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list.Runs, 1)

	resp = get(t, ts.URL+"/v1/runs?limit=-3")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, ts.URL+"/v1/runs/"+ids[0])
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rep struct {
		RunID     string   `json:"run_id"`
		Snapshots []string `json:"snapshots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Equal(t, ids[0], rep.RunID)
	assert.Equal(t, []string{"A -> B;B -> C"}, rep.Snapshots)

	resp = get(t, ts.URL+"/v1/runs/"+ids[1]+"/graph.dot")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/vnd.graphviz")
	dot, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph G")
}

func TestGetRun_NotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/v1/runs/nope", "/v1/runs/nope/graph.svg"} {
		resp := get(t, ts.URL+path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, apperr.ErrCodeNotFound, decodeError(t, resp).Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	defer observability.Reset()
	reg := prometheus.NewRegistry()
	metrics.New(reg).Register()

	srv := New(Config{
		Logger:  log.New(io.Discard),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	post(t, ts.URL+"/v1/decompose", `{"operations":[["A","B"]]}`)

	resp := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `modgraph_decompose_runs_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), `route="/v1/decompose"`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.New(apperr.ErrCodeInvalidGroup, "x"), http.StatusBadRequest},
		{apperr.New(apperr.ErrCodeNotFound, "x"), http.StatusNotFound},
		{store.ErrNotFound, http.StatusNotFound},
		{apperr.New(apperr.ErrCodeIterationLimit, "x"), http.StatusUnprocessableEntity},
		{apperr.New(apperr.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	s := New(Config{Logger: log.New(io.Discard)})
	rec := httptest.NewRecorder()
	s.writeError(rec, errors.New("db password is hunter2"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorBody
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&body))
	assert.Equal(t, apperr.ErrCodeInternal, body.Error.Code)
	assert.Equal(t, "internal error", body.Error.Message)
}
