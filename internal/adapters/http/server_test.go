package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenogo/phenogo/pkg/adapters/memory"
	"github.com/phenogo/phenogo/pkg/catalog"
)

func newTestHandler(opts ...ServerOption) http.Handler {
	return NewServer(catalog.Loader{}, opts...).Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp map[string]any
	if rr.Code < 300 && rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestGetHealth(t *testing.T) {
	rr, resp := doJSON(t, newTestHandler(), "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", resp["status"])
}

func TestListPhenotypes(t *testing.T) {
	rr, resp := doJSON(t, newTestHandler(), "GET", "/phenotypes", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	names, ok := resp["phenotypes"].([]any)
	require.True(t, ok)
	assert.Contains(t, names, "ki67-basic")
	assert.Contains(t, names, "necrosis-standard")
}

func TestGetPhenotype(t *testing.T) {
	rr, resp := doJSON(t, newTestHandler(), "GET", "/phenotypes/ki67-basic", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ki67-basic", resp["name"])
	assert.Contains(t, resp["mermaid"], "graph TD")

	phases, ok := resp["phases"].([]any)
	require.True(t, ok)
	assert.Len(t, phases, 2)
}

func TestGetPhenotypeNotFound(t *testing.T) {
	rr, _ := doJSON(t, newTestHandler(), "GET", "/phenotypes/unknown", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRunLifecycle(t *testing.T) {
	handler := newTestHandler()

	// Create
	rr, resp := doJSON(t, handler, "POST", "/runs", `{"phenotype":"ki67-basic","cells":3,"seed":7}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	id, _ := resp["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, float64(3), resp["cells"])

	// Inspect
	rr, resp = doJSON(t, handler, "GET", "/runs/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	snapshot, ok := resp["snapshot"].(map[string]any)
	require.True(t, ok)
	cells, ok := snapshot["cells"].([]any)
	require.True(t, ok)
	assert.Len(t, cells, 3)

	// Step
	rr, resp = doJSON(t, handler, "POST", "/runs/"+id+"/step", `{"dt":1,"steps":10}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(10), resp["steps"])
	stats, ok := resp["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), stats["cells"])

	// List
	rr, resp = doJSON(t, handler, "GET", "/runs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	runs, ok := resp["runs"].([]any)
	require.True(t, ok)
	assert.Contains(t, runs, id)

	// Delete
	rr, _ = doJSON(t, handler, "DELETE", "/runs/"+id, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr, _ = doJSON(t, handler, "GET", "/runs/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateRunUnknownPhenotype(t *testing.T) {
	rr, _ := doJSON(t, newTestHandler(), "POST", "/runs", `{"phenotype":"unknown"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStepRunValidation(t *testing.T) {
	handler := newTestHandler()

	rr, resp := doJSON(t, handler, "POST", "/runs", `{"phenotype":"simple-live","seed":1}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := resp["id"].(string)

	rr, _ = doJSON(t, handler, "POST", "/runs/"+id+"/step", `{"dt":0}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = doJSON(t, handler, "POST", "/runs/missing/step", `{"dt":1}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStepRunPersistsSnapshot(t *testing.T) {
	store := memory.NewStore()
	handler := newTestHandler(WithRunStore(store))

	rr, resp := doJSON(t, handler, "POST", "/runs", `{"phenotype":"ki67-basic","seed":3}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := resp["id"].(string)

	rr, _ = doJSON(t, handler, "POST", "/runs/"+id+"/step", `{"dt":1}`)
	require.Equal(t, http.StatusOK, rr.Code)

	snap, err := store.Load(httptest.NewRequest("GET", "/", nil).Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "ki67-basic", snap.Phenotype)
	assert.Len(t, snap.Cells, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler()

	rr, resp := doJSON(t, handler, "POST", "/runs", `{"phenotype":"simple-live","seed":1}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := resp["id"].(string)
	rr, _ = doJSON(t, handler, "POST", "/runs/"+id+"/step", `{"dt":1}`)
	require.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest("GET", "/metrics", nil)
	mrr := httptest.NewRecorder()
	handler.ServeHTTP(mrr, req)
	assert.Equal(t, http.StatusOK, mrr.Code)
	assert.Contains(t, mrr.Body.String(), "phenogo_steps_total")
}
