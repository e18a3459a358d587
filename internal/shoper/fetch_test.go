package shoper

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"shopsync/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient(
		Connection{BaseURL: baseURL, BearerToken: "test-token"},
		logger.New("error"),
		WithSettleDelay(0),
	)
}

// pagedServer serves /products pages with the given sizes under any root
// prefix, mimicking a deployment whose API root has to be guessed.
func pagedServer(t *testing.T, pageSizes []int) (*httptest.Server, *int) {
	t.Helper()
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/products") {
			http.NotFound(w, r)
			return
		}
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 || page > len(pageSizes) {
			json.NewEncoder(w).Encode(map[string]interface{}{"list": []interface{}{}})
			return
		}
		items := make([]interface{}, pageSizes[page-1])
		for i := range items {
			items[i] = map[string]interface{}{"product_id": fmt.Sprintf("p%d-%d", page, i)}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"list": items})
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestFetchRowsConcatenatesAllPages(t *testing.T) {
	server, _ := pagedServer(t, []int{pageSize, pageSize, 20})

	rows := testClient(server.URL).FetchRows("products", 0)
	assert.Len(t, rows, 2*pageSize+20)
}

func TestFetchRowsStopsOnShortPage(t *testing.T) {
	server, requests := pagedServer(t, []int{pageSize, 10})

	rows := testClient(server.URL).FetchRows("products", 0)
	assert.Len(t, rows, pageSize+10)
	// Two pages requested, no probe past the short one.
	assert.Equal(t, 2, *requests)
}

func TestFetchRowsHonorsLimit(t *testing.T) {
	server, _ := pagedServer(t, []int{pageSize, pageSize, pageSize})

	rows := testClient(server.URL).FetchRows("products", 70)
	assert.Len(t, rows, 70)
}

func TestFetchRowsStopsOnPaginationMetadata(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/products") {
			http.NotFound(w, r)
			return
		}
		requests++
		items := make([]interface{}, pageSize)
		for i := range items {
			items[i] = map[string]interface{}{"product_id": i}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"list":  items,
			"page":  1,
			"pages": 1,
		})
	}))
	defer server.Close()

	rows := testClient(server.URL).FetchRows("products", 0)
	assert.Len(t, rows, pageSize)
	assert.Equal(t, 1, requests)
}

func TestFetchRowsFallsThroughFailingRoots(t *testing.T) {
	// Only the bare base URL answers; every guessed API root 404s.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"list": []interface{}{map[string]interface{}{"product_id": 1}},
		})
	}))
	defer server.Close()

	rows := testClient(server.URL).FetchRows("products", 0)
	require.Len(t, rows, 1)
}

func TestFetchRowsEmptyWhenEveryRootFails(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	rows := testClient(server.URL).FetchRows("products", 0)
	assert.Empty(t, rows)
}

func TestFetchRowsSendsAuthHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"list": []interface{}{map[string]interface{}{"id": 1}},
		})
	}))
	defer server.Close()

	testClient(server.URL).FetchRows("products", 1)
	assert.Equal(t, "Bearer test-token", got)
}

func TestFetchRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/products/42") {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"product_id": 42, "name": "Widget"})
	}))
	defer server.Close()

	record, ok := testClient(server.URL).FetchRecord("products", "42")
	require.True(t, ok)
	assert.Equal(t, "Widget", record["name"])

	_, ok = testClient(server.URL).FetchRecord("products", "43")
	assert.False(t, ok)
}

func TestFetchFieldsUnionsFlattenedKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/products") {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"list": []interface{}{
			map[string]interface{}{"product_id": 1, "stock": map[string]interface{}{"price": 10}},
			map[string]interface{}{"product_id": 2, "name": "B"},
		}})
	}))
	defer server.Close()

	fields := testClient(server.URL).FetchFields("products")
	assert.Equal(t, []string{"name", "product_id", "stock.price"}, fields)
}

func TestFetchFieldsEmptyWhenNoData(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	assert.Empty(t, testClient(server.URL).FetchFields("products"))
}
