package search

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeES(t *testing.T, h http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestSearch(t *testing.T) {
	var body map[string]any
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/_search", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[{"_id":"ip14p","_source":{"product_id":"ip14p"}},{"_id":"ip15","_source":{}}]}}`))
	})

	total, ids, err := NewIndex(es, "products").Search(context.Background(), "pro", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"ip14p", "ip15"}, ids)
	assert.EqualValues(t, 10, body["size"])
}

func TestSearch_EmptyQuery(t *testing.T) {
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	total, ids, err := NewIndex(es, "products").Search(context.Background(), "  ", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, ids)
}

func TestSearch_ErrorStatus(t *testing.T) {
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	_, _, err := NewIndex(es, "products").Search(context.Background(), "x", 0, 10)
	require.Error(t, err)
}

func TestIndexProducts(t *testing.T) {
	var lines []string
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/_bulk"))
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		_, _ = w.Write([]byte(`{"errors":false,"items":[]}`))
	})

	err := NewIndex(es, "products").IndexProducts(context.Background(), []Document{
		{ProductID: "ip15", Model: "iPhone 15", Price: 80000},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"index":{"_id":"ip15"}}`, lines[0])
	assert.Contains(t, lines[1], `"model":"iPhone 15"`)
}

func TestIndexProducts_RejectedDocuments(t *testing.T) {
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":true,"items":[]}`))
	})
	err := NewIndex(es, "products").IndexProducts(context.Background(), []Document{{ProductID: "x"}})
	require.Error(t, err)
}
