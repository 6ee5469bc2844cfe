package model

// EvidenceItem 单条归一化后的搜索结果
type EvidenceItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// QueryResult 一条查询及其证据列表
// Data 永远非nil：查询失败时为空列表
type QueryResult struct {
	Query string         `json:"query"`
	Data  []EvidenceItem `json:"data"`
}

// Report 结构化的legitimacy判定结果
// Score 固定在 [0,100]，Flags 永远是列表，Verdict 永远非空
type Report struct {
	Score   int      `json:"score"`
	Flags   []string `json:"flags"`
	Verdict string   `json:"verdict"`
}

// InvestigationResponse 调查管线的完整输出
// Plan 与 Logs 按查询顺序一一对应：Plan[i] == Logs[i].Query
// Progress 是可选的诊断通道，不属于核心响应契约
type InvestigationResponse struct {
	Plan     []string      `json:"plan"`
	Logs     []QueryResult `json:"logs"`
	Report   Report        `json:"report"`
	Progress []string      `json:"progress,omitempty"`
}

// TotalEvidence 统计收集到的证据总数
func (r *InvestigationResponse) TotalEvidence() int {
	total := 0
	for _, l := range r.Logs {
		total += len(l.Data)
	}
	return total
}
