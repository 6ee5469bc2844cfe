package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deep-detective-go/internal/fetcher"
	"deep-detective-go/internal/model"
)

// fakeSearch 记录调用的搜索假实现
type fakeSearch struct {
	mu    sync.Mutex
	calls []string
	items []model.EvidenceItem
	err   error
}

func (f *fakeSearch) Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeSearch) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

const goodReply = `{"score": 20, "flags": ["sketchy team"], "verdict": "Walk away."}`

func TestIsDemoTarget(t *testing.T) {
	for _, target := range []string{"ftx", "FTX", "Ftx", " FTX ", "ftx token", "FTX Token"} {
		assert.True(t, IsDemoTarget(target), "target %q", target)
	}
	for _, target := range []string{"bitcoin", "ftx coin", "ftx token sale", "notftx", ""} {
		assert.False(t, IsDemoTarget(target), "target %q", target)
	}
}

func TestInvestigateDemoOverride(t *testing.T) {
	// 两个客户端都会炸：演示路径必须完全不碰它们
	search := &fakeSearch{err: errors.New("should not be called")}
	llm := &fakeLLM{err: errors.New("should not be called")}
	svc := NewInvestigationServiceWithClients(search, llm)

	resp := svc.Investigate(context.Background(), "FTX")

	assert.Equal(t, 0, resp.Report.Score)
	assert.NotEmpty(t, resp.Report.Flags)
	assert.NotEmpty(t, resp.Report.Verdict)
	assert.Len(t, resp.Plan, 3)
	assert.Len(t, resp.Logs, 3)
	assert.Zero(t, search.callCount(), "demo path must not hit the search provider")
	assert.Zero(t, llm.calls, "demo path must not hit the model provider")

	// 带限定词的写法同样命中
	resp = svc.Investigate(context.Background(), "ftx token")
	assert.Equal(t, 0, resp.Report.Score)
	assert.Zero(t, search.callCount())
}

func TestInvestigateAllFetchesFail(t *testing.T) {
	search := &fakeSearch{err: errors.New("tavily down")}
	llm := &fakeLLM{reply: goodReply}
	svc := NewInvestigationServiceWithClients(search, llm)

	resp := svc.Investigate(context.Background(), "GhostCoin")

	// 三条查询全失败也不中断：每条降级成空证据列表
	require.Len(t, resp.Logs, 3)
	for _, l := range resp.Logs {
		assert.NotNil(t, l.Data)
		assert.Empty(t, l.Data)
	}
	assert.Equal(t, 3, search.callCount())

	// 分析照常进行，三个查询段都在prompt里
	assert.Equal(t, 1, llm.calls)
	for i, q := range resp.Plan {
		assert.Contains(t, llm.lastPrompt, fmt.Sprintf("=== Query %d: %s ===", i+1, q))
	}
	assert.Equal(t, 20, resp.Report.Score)
}

func TestInvestigateAnalyzerFailureDegrades(t *testing.T) {
	evidence := []model.EvidenceItem{{Title: "Hit", Content: "Something damning", URL: "https://example.com"}}
	search := &fakeSearch{items: evidence}
	llm := &fakeLLM{err: &fetcher.ProviderError{Cause: fetcher.CauseAuth, Err: errors.New("401")}}
	svc := NewInvestigationServiceWithClients(search, llm)

	resp := svc.Investigate(context.Background(), "ShadyCoin")

	// 已收集的证据保留，报告降级而不是请求失败
	require.Len(t, resp.Logs, 3)
	for _, l := range resp.Logs {
		assert.Equal(t, evidence, l.Data)
	}
	assert.Equal(t, 50, resp.Report.Score)
	require.NotEmpty(t, resp.Report.Flags)
	assert.Equal(t, "Analysis service unavailable", resp.Report.Flags[0])
	assert.Contains(t, resp.Report.Verdict, "Investigation incomplete")
}

func TestInvestigatePlanLogsAlignment(t *testing.T) {
	search := &fakeSearch{items: []model.EvidenceItem{{Title: "T", Content: "C", URL: "u"}}}
	llm := &fakeLLM{reply: goodReply}
	svc := NewInvestigationServiceWithClients(search, llm)

	resp := svc.Investigate(context.Background(), "AlignCoin")

	require.Len(t, resp.Plan, 3)
	require.Len(t, resp.Logs, 3)

	// 序列化往返后 plan[i] 仍对应 logs[i].query
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded model.InvestigationResponse
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Plan, 3)
	require.Len(t, decoded.Logs, 3)
	for i := range decoded.Plan {
		assert.Equal(t, decoded.Plan[i], decoded.Logs[i].Query)
	}
}

func TestInvestigateProgressLog(t *testing.T) {
	search := &fakeSearch{items: nil}
	llm := &fakeLLM{reply: goodReply}
	svc := NewInvestigationServiceWithClients(search, llm)

	var streamed []string
	resp := svc.InvestigateWithProgress(context.Background(), "TraceCoin", func(line string) {
		streamed = append(streamed, line)
	})

	joined := strings.Join(resp.Progress, "\n")
	for _, tag := range []string{"[INIT]", "[PLAN]", "[EXECUTE]", "[ANALYZE]", "[COMPLETE]"} {
		assert.Contains(t, joined, tag)
	}

	// 回调收到的行和响应里的progress一致
	assert.Equal(t, resp.Progress, streamed)
}
