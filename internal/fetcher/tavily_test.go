package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(serverURL string) *TavilyFetcher {
	return &TavilyFetcher{
		apiKey:     "test-key",
		baseURL:    serverURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestTavilySearch(t *testing.T) {
	var gotReq tavilyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{"title": "<b>Rug</b> pull &amp; exit", "url": "https://a.example", "content": "Lost   funds"},
				{"title": "", "url": "", "snippet": "snippet only"},
				{"url": "https://c.example"}
			]
		}`))
	}))
	defer server.Close()

	f := newTestFetcher(server.URL)
	items, err := f.Search(context.Background(), "ScamCoin crypto scam", 2)
	require.NoError(t, err)

	// 请求体按Tavily契约组装
	assert.Equal(t, "test-key", gotReq.APIKey)
	assert.Equal(t, "ScamCoin crypto scam", gotReq.Query)
	assert.Equal(t, "basic", gotReq.SearchDepth)
	assert.Equal(t, 2, gotReq.MaxResults)

	require.Len(t, items, 3)

	// HTML标记剥掉、实体解码
	assert.Equal(t, "Rug pull & exit", items[0].Title)
	assert.Equal(t, "Lost funds", items[0].Content)
	assert.Equal(t, "https://a.example", items[0].URL)

	// content缺失回退到snippet，title/url缺失用默认值
	assert.Equal(t, "Untitled", items[1].Title)
	assert.Equal(t, "snippet only", items[1].Content)
	assert.Equal(t, "#", items[1].URL)

	assert.Equal(t, "Untitled", items[2].Title)
	assert.Equal(t, "", items[2].Content)
	assert.Equal(t, "https://c.example", items[2].URL)
}

func TestTavilySearchEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	items, err := newTestFetcher(server.URL).Search(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestTavilySearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "usage limit exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL).Search(context.Background(), "q", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestTavilySearchMissingKey(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	f := newTestFetcher(server.URL)
	f.apiKey = ""

	_, err := f.Search(context.Background(), "q", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TAVILY_API_KEY")
	assert.Zero(t, requests, "missing key must fail before any network call")
}
