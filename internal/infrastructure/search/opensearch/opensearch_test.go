package opensearch

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/mockdata"
	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

type recorded struct {
	method string
	path   string
	body   string
}

// fakeCluster answers the handful of endpoints used here and records every
// request it sees.
type fakeCluster struct {
	mu       sync.Mutex
	requests []recorded
	search   string
	status   int
	exists   bool
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{r.Method, r.URL.Path, string(body)})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case f.status != 0:
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	case r.Method == http.MethodHead && r.URL.Path == "/":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead:
		if f.exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut:
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		_, _ = w.Write([]byte(`{"errors":false,"items":[]}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = w.Write([]byte(f.search))
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (f *fakeCluster) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, f *fakeCluster) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	osClient, err := opensearchgo.NewClient(opensearchgo.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewClientFromOpenSearch(osClient, nil)
}

func TestClient_Ping(t *testing.T) {
	c := newTestClient(t, &fakeCluster{})
	require.NoError(t, c.Ping(context.Background()))
	assert.True(t, c.IsHealthy())

	down := newTestClient(t, &fakeCluster{status: http.StatusServiceUnavailable})
	assert.Error(t, down.Ping(context.Background()))
	assert.False(t, down.IsHealthy())
}

func TestNewClient_RequiresAddresses(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{}, nil)
	assert.Equal(t, ErrInvalidConfig, err)
}

func TestIndexer_EnsureIndex(t *testing.T) {
	f := &fakeCluster{}
	ix := NewIndexer(newTestClient(t, f), "phyto", "", nil)

	require.NoError(t, ix.EnsureIndex(context.Background()))
	put := f.last()
	assert.Equal(t, http.MethodPut, put.method)
	assert.Equal(t, "/phyto", put.path)
	assert.True(t, json.Valid([]byte(put.body)))

	f.exists = true
	n := len(f.requests)
	require.NoError(t, ix.EnsureIndex(context.Background()))
	assert.Len(t, f.requests, n+1)
}

func TestIndexer_BulkIndex(t *testing.T) {
	f := &fakeCluster{}
	ix := NewIndexer(newTestClient(t, f), "phyto", "true", nil)

	var docs []CompoundDocument
	for _, c := range mockdata.Phytochemicals()[:3] {
		docs = append(docs, DocumentFor("Curcuma longa", "Rhizome", c, []string{"IMPPAT"}))
	}
	failed, err := ix.BulkIndex(context.Background(), docs)
	require.NoError(t, err)
	assert.Zero(t, failed)

	sc := bufio.NewScanner(strings.NewReader(f.last().body))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], `"_id":"curcuma longa|rhizome|1"`)
	assert.Contains(t, lines[1], `"name":"Curcumin"`)
}

func TestPhytochemicalIndex_Lookup(t *testing.T) {
	f := &fakeCluster{search: `{"hits":{"hits":[
		{"_source":{"compound_id":"1","name":"Curcumin","smiles":"C","plant":"Curcuma longa","plant_part":"Rhizome","databases":["IMPPAT"]}},
		{"_source":{"compound_id":"1","name":"Curcumin","plant":"Curcuma longa","plant_part":"Leaf","databases":["IMPPAT"]}},
		{"_source":{"compound_id":"4","name":"Turmerone","plant":"Curcuma longa","plant_part":"Rhizome","databases":["KNApSAcK"]}}
	]}}`}
	idx := NewPhytochemicalIndex(newTestClient(t, f), "phyto", 0, nil)

	got, err := idx.Lookup(context.Background(), " Curcuma longa ", "Rhizome", research.DatabaseFlags{IMPPAT: true, KNApSAcK: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Curcumin", got[0].Name)
	assert.Equal(t, "C", got[0].SMILES)

	req := f.last()
	assert.Equal(t, "/phyto/_search", req.path)
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.body), &q))
	assert.EqualValues(t, 100, q["size"])
	assert.Contains(t, req.body, `"plant":"Curcuma longa"`)
	assert.Contains(t, req.body, `"databases":["IMPPAT","KNApSAcK"]`)
	assert.Contains(t, req.body, `"plant_part":"Rhizome"`)
}

func TestPhytochemicalIndex_LookupValidation(t *testing.T) {
	idx := NewPhytochemicalIndex(newTestClient(t, &fakeCluster{}), "phyto", 10, nil)

	_, err := idx.Lookup(context.Background(), "", "Leaf", mockdata.DefaultDatabases())
	assert.True(t, apperrors.IsValidation(err))
	_, err = idx.Lookup(context.Background(), "Neem", "Leaf", research.DatabaseFlags{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestPhytochemicalIndex_LookupClusterError(t *testing.T) {
	idx := NewPhytochemicalIndex(newTestClient(t, &fakeCluster{status: http.StatusBadRequest}), "phyto", 10, nil)

	_, err := idx.Lookup(context.Background(), "Neem", "Leaf", mockdata.DefaultDatabases())
	assert.True(t, apperrors.IsServiceUnavailable(err))
}
