package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"deep-detective-go/internal/model"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// TavilyFetcher Tavily搜索获取器
type TavilyFetcher struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewTavilyFetcher 创建Tavily获取器
func NewTavilyFetcher(apiKey string) *TavilyFetcher {
	return &TavilyFetcher{
		apiKey:  apiKey,
		baseURL: tavilyEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// Search 执行一次搜索并归一化为证据列表
// 单次尝试，不重试；失败由调用方决定如何降级
func (t *TavilyFetcher) Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY is not set")
	}

	reqBody := tavilyRequest{
		APIKey:      t.apiKey,
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  maxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tavily returned status %d: %s", resp.StatusCode, string(body))
	}

	var tavilyResp tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tavilyResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]model.EvidenceItem, 0, len(tavilyResp.Results))
	for _, r := range tavilyResp.Results {
		content := r.Content
		if content == "" {
			content = r.Snippet
		}

		item := model.EvidenceItem{
			Title:   CleanSnippet(r.Title),
			Content: CleanSnippet(content),
			URL:     r.URL,
		}
		// 字段缺失时填充默认值
		if item.Title == "" {
			item.Title = "Untitled"
		}
		if item.URL == "" {
			item.URL = "#"
		}
		results = append(results, item)
	}

	return results, nil
}
