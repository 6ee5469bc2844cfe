package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"deep-detective-go/internal/fetcher"
	"deep-detective-go/internal/model"
)

// maxSearchResults 每条查询向搜索提供方要的结果数
const maxSearchResults = 2

// ProgressFunc 接收一行进度日志（可选的诊断通道，如SSE）
type ProgressFunc func(line string)

// InvestigationService 调查管线：plan -> gather -> analyze
type InvestigationService struct {
	searchFetcher fetcher.SearchFetcher
	analyzer      *Analyzer
}

// NewInvestigationService 用API key创建服务
func NewInvestigationService(tavilyKey, geminiKey, geminiModel string) *InvestigationService {
	return NewInvestigationServiceWithClients(
		fetcher.NewTavilyFetcher(tavilyKey),
		fetcher.NewGeminiClient(geminiKey, geminiModel),
	)
}

// NewInvestigationServiceWithClients 用注入的客户端创建服务（测试用假实现）
func NewInvestigationServiceWithClients(search fetcher.SearchFetcher, llm fetcher.LLMClient) *InvestigationService {
	return &InvestigationService{
		searchFetcher: search,
		analyzer:      NewAnalyzer(llm),
	}
}

// IsDemoTarget 判断目标是否命中演示用例（已知诈骗案例的固定兜底）
// 大小写不敏感，只认 "ftx" 和 "ftx token" 两个写法，不做扩展
func IsDemoTarget(target string) bool {
	lower := strings.ToLower(strings.TrimSpace(target))
	return lower == "ftx" || lower == "ftx token"
}

// Investigate 执行一次完整调查，target须为trim后的非空字符串
// 永远返回可用的响应：子步骤失败按既定策略降级，不中断请求
func (s *InvestigationService) Investigate(ctx context.Context, target string) *model.InvestigationResponse {
	return s.InvestigateWithProgress(ctx, target, nil)
}

// InvestigateWithProgress 同Investigate，每行进度额外推给onProgress
func (s *InvestigationService) InvestigateWithProgress(ctx context.Context, target string, onProgress ProgressFunc) *model.InvestigationResponse {
	var (
		mu       sync.Mutex
		progress []string
	)
	step := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		mu.Lock()
		progress = append(progress, line)
		if onProgress != nil {
			onProgress(line)
		}
		mu.Unlock()
		log.Println(line)
	}

	step("[INIT] Starting investigation on %q", target)

	// 演示兜底：FTX直接返回固定结果，不碰任何外部服务
	if IsDemoTarget(target) {
		step("[DEMO] Safety net activated - known high-risk crypto case detected")
		resp := model.DemoFTXResponse()
		resp.Progress = progress
		return resp
	}

	// STEP 1: 生成查询计划
	step("[PLAN] Analyzing target type and generating search queries...")
	queries, targetType := GenerateQueries(target)
	step("[PLAN] Target identified as: %s", targetType)
	step("[PLAN] Generated %d search queries", len(queries))

	// STEP 2: 并行执行搜索
	step("[EXECUTE] Initiating parallel web searches...")
	results := s.gather(ctx, queries, step)

	resp := &model.InvestigationResponse{
		Plan: queries,
		Logs: results,
	}
	step("[EXECUTE] Total results collected: %d", resp.TotalEvidence())

	// STEP 3: LLM分析
	step("[ANALYZE] Processing results with Gemini AI...")
	report, err := s.analyzer.Analyze(ctx, target, results)
	if err != nil {
		// 分析失败不拖垮整个请求：保留已收集的证据，给出降级报告
		step("[ANALYZE] Error: %v", err)
		resp.Report = model.Report{
			Score:   50,
			Flags:   []string{"Analysis service unavailable", err.Error()},
			Verdict: fmt.Sprintf("Investigation incomplete: %v. Search results collected but AI analysis failed.", err),
		}
		resp.Progress = progress
		return resp
	}

	step("[ANALYZE] Legitimacy score: %d%%", report.Score)
	step("[ANALYZE] Red flags identified: %d", len(report.Flags))
	step("[COMPLETE] Investigation finished. Verdict: %s", report.Verdict)

	resp.Report = *report
	resp.Progress = progress
	return resp
}

// gather 并发执行所有查询，等全部完成后按查询顺序返回
// 单条查询失败只降级成空证据列表，绝不中断整批
func (s *InvestigationService) gather(ctx context.Context, queries []string, step func(string, ...any)) []model.QueryResult {
	results := make([]model.QueryResult, len(queries))

	g := new(errgroup.Group)
	for i, query := range queries {
		g.Go(func() error {
			items, err := s.searchFetcher.Search(ctx, query, maxSearchResults)
			if err != nil {
				step("[EXECUTE] Query %q failed: %v", query, err)
				results[i] = model.QueryResult{Query: query, Data: []model.EvidenceItem{}}
				return nil
			}
			if items == nil {
				items = []model.EvidenceItem{}
			}
			step("[EXECUTE] Query %q returned %d results", query, len(items))
			results[i] = model.QueryResult{Query: query, Data: items}
			return nil
		})
	}
	g.Wait()

	return results
}
