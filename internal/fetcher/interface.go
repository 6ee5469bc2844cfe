package fetcher

import (
	"context"

	"deep-detective-go/internal/model"
)

// SearchFetcher 搜索获取器 (Tavily)
type SearchFetcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error)
}

// LLMClient LLM客户端 (Gemini)
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
