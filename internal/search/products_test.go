package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ordermanagement/internal/models"
)

type recorded struct {
	method string
	path   string
	body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	response string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{method: r.Method, path: r.URL.Path, body: string(body)})
	status, response := f.status, f.response
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, response)
}

func (f *fakeES) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestIndex(t *testing.T, f *fakeES) *ProductIndex {
	t.Helper()

	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(es, "products")
}

func TestProductIndex_IndexProduct(t *testing.T) {
	t.Parallel()

	f := &fakeES{response: `{"result":"created"}`, status: http.StatusCreated}
	x := newTestIndex(t, f)

	err := x.IndexProduct(context.Background(), models.Product{ID: 3, Name: "Product C", UnitPrice: decimal.NewFromInt(300)})
	require.NoError(t, err)

	req := f.last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/products/_doc/3", req.path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.body), &doc))
	assert.Equal(t, "Product C", doc["name"])
	assert.Equal(t, "300", doc["unitPrice"])
}

func TestProductIndex_DeleteProduct_MissingIsFine(t *testing.T) {
	t.Parallel()

	f := &fakeES{response: `{"result":"not_found"}`, status: http.StatusNotFound}
	x := newTestIndex(t, f)

	require.NoError(t, x.DeleteProduct(context.Background(), 9))
	req := f.last()
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, "/products/_doc/9", req.path)
}

func TestProductIndex_IndexProduct_ServerError(t *testing.T) {
	t.Parallel()

	f := &fakeES{response: `{"error":"boom"}`, status: http.StatusInternalServerError}
	x := newTestIndex(t, f)

	err := x.IndexProduct(context.Background(), models.Product{ID: 1, Name: "A"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestProductIndex_Search(t *testing.T) {
	t.Parallel()

	f := &fakeES{response: `{
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_source": {"id": 1, "name": "Product A", "unitPrice": "100"}},
				{"_source": {"id": 2, "name": "Product AB", "unitPrice": 200}}
			]
		}
	}`}
	x := newTestIndex(t, f)

	total, docs, err := x.Search(context.Background(), "prodct", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, docs, 2)
	assert.Equal(t, "Product A", docs[0].Name)
	assert.True(t, decimal.NewFromInt(200).Equal(docs[1].UnitPrice))

	req := f.last()
	assert.True(t, strings.HasSuffix(req.path, "/products/_search"), req.path)
	assert.Contains(t, req.body, `"fuzziness":"AUTO"`)
	assert.Contains(t, req.body, `"query":"prodct"`)
}
