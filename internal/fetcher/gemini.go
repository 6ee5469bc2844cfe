package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"
)

// ErrorCause 提供方故障原因枚举
// 在故障发生点打标签，而不是事后靠错误文本猜测
type ErrorCause int

const (
	CauseUnknown ErrorCause = iota
	CauseModelNotFound
	CauseAuth
	CauseQuota
)

// ProviderError 带原因标签的提供方错误
type ProviderError struct {
	Cause ErrorCause
	Err   error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// GeminiClient Gemini文本生成客户端
type GeminiClient struct {
	apiKey string
	model  string

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGeminiClient 创建Gemini客户端
// SDK client延迟到首次调用时创建：缺key属于调用时错误，不应阻止进程启动
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
	}
}

func (g *GeminiClient) init(ctx context.Context) error {
	g.initOnce.Do(func() {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			g.initErr = &ProviderError{Cause: CauseUnknown, Err: fmt.Errorf("failed to create Gemini client: %w", err)}
			return
		}
		g.client = client
	})
	return g.initErr
}

// Generate 用给定prompt调用模型，返回原始文本回复
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", &ProviderError{Cause: CauseAuth, Err: errors.New("GEMINI_API_KEY is not set")}
	}

	if err := g.init(ctx); err != nil {
		return "", err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &ProviderError{Cause: classifyAPIError(err), Err: fmt.Errorf("gemini generate failed: %w", err)}
	}

	text := resp.Text()
	if text == "" {
		return "", &ProviderError{Cause: CauseUnknown, Err: errors.New("empty response from model")}
	}

	return text, nil
}

// classifyAPIError 根据genai APIError的HTTP状态码归类故障原因
func classifyAPIError(err error) ErrorCause {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return CauseUnknown
	}

	switch apiErr.Code {
	case http.StatusNotFound:
		return CauseModelNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return CauseAuth
	case http.StatusTooManyRequests:
		return CauseQuota
	}
	return CauseUnknown
}
