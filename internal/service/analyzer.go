package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"deep-detective-go/internal/fetcher"
	"deep-detective-go/internal/model"
)

// ErrNoJSON 模型回复里找不到任何JSON对象
// 与"找到了但解析失败"区分开，便于定位到底是哪种失败
var ErrNoJSON = errors.New("no JSON object found in model reply")

// fenceRe 匹配markdown代码块（可带json语言标签）
var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// analysisError 分类后的分析错误
// Error()只给人看的说明文字，原始错误链保留给errors.Is/As
type analysisError struct {
	msg string
	err error
}

func (e *analysisError) Error() string {
	return e.msg
}

func (e *analysisError) Unwrap() error {
	return e.err
}

// Analyzer 根据搜索证据生成结构化判定
type Analyzer struct {
	llm fetcher.LLMClient
}

// NewAnalyzer 创建分析器
func NewAnalyzer(llm fetcher.LLMClient) *Analyzer {
	return &Analyzer{llm: llm}
}

// Analyze 构建prompt调用模型，解析并归一化为Report
// 这里的失败一律上抛，由orchestrator决定是否降级
func (a *Analyzer) Analyze(ctx context.Context, target string, results []model.QueryResult) (*model.Report, error) {
	prompt := buildPrompt(target, results)

	reply, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, &analysisError{msg: describeProviderError(err), err: err}
	}

	jsonStr, err := ExtractJSON(reply)
	if err != nil {
		return nil, &analysisError{msg: fmt.Sprintf("Analysis error: %v", err), err: err}
	}

	report, err := parseReport(jsonStr)
	if err != nil {
		return nil, &analysisError{msg: fmt.Sprintf("Analysis error: model reply contained invalid JSON: %v", err), err: err}
	}

	return report, nil
}

// buildPrompt 把目标和所有证据拼成单个调查prompt
func buildPrompt(target string, results []model.QueryResult) string {
	var sections []string
	for i, r := range results {
		var sb strings.Builder
		fmt.Fprintf(&sb, "=== Query %d: %s ===\n", i+1, r.Query)

		var items []string
		for j, item := range r.Data {
			items = append(items, fmt.Sprintf("Result %d:\nTitle: %s\nContent: %s\n", j+1, item.Title, item.Content))
		}
		sb.WriteString(strings.Join(items, "\n---\n\n"))
		sections = append(sections, sb.String())
	}
	aggregated := strings.Join(sections, "\n\n")

	return fmt.Sprintf(`You are a Noir Forensic Analyst investigating the cryptocurrency "%s". Analyze the following search results and determine legitimacy.

Search Results:
%s

Act as a cynical, hard-boiled detective specializing in crypto investigations. Extract red flags related to scams, rug pulls, security vulnerabilities, exchange hacks, and fraudulent activities. Determine if this crypto is likely risky, sort of risky, or safe.

Return ONLY a valid JSON object (no markdown, no code blocks, no explanations) with this exact structure:
{
  "score": <integer 0-100, where 0 is likely risky and 100 is safe>,
  "flags": ["flag1", "flag2", ...],
  "verdict": "<short, cynical summary in one sentence>"
}

Be harsh but fair. If you find serious red flags (rug pulls, scams, hacks, security issues), score low. If it's clean and legitimate, score high.`, target, aggregated)
}

// ExtractJSON 从自由文本回复里提取JSON对象
// 模型经常无视指令把JSON包在代码块或解释文字里：
// 先剥掉代码块，再取首个 { 到末个 } 的范围
func ExtractJSON(text string) (string, error) {
	jsonText := strings.TrimSpace(text)

	if matches := fenceRe.FindStringSubmatch(jsonText); len(matches) > 1 {
		jsonText = strings.TrimSpace(matches[1])
	}

	start := strings.Index(jsonText, "{")
	end := strings.LastIndex(jsonText, "}")
	if start == -1 || end <= start {
		return "", ErrNoJSON
	}

	return jsonText[start : end+1], nil
}

// parseReport 解析模型JSON并归一化成合法Report
// 只要JSON本身能解析，就必须产出合法结果：
// score缺省50并夹到[0,100]，flags非列表时置空，verdict缺省占位语
// 各字段单独宽容解码，模型给错类型不能拖垮整个解析
func parseReport(jsonStr string) (*model.Report, error) {
	var parsed struct {
		Score   json.RawMessage `json:"score"`
		Flags   json.RawMessage `json:"flags"`
		Verdict json.RawMessage `json:"verdict"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, err
	}

	report := &model.Report{
		Score:   normalizeScore(parsed.Score),
		Flags:   normalizeFlags(parsed.Flags),
		Verdict: normalizeVerdict(parsed.Verdict),
	}
	if report.Verdict == "" {
		report.Verdict = "Investigation inconclusive"
	}

	return report, nil
}

// normalizeScore 接受数字或数字字符串，其余形状回退50
func normalizeScore(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return 50
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		// 模型偶尔把分数加引号返回，如 "score": "50"
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 50
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 50
		}
		f = parsed
	}

	score := int(math.Round(f))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// normalizeVerdict 非字符串的verdict转成文本而不是解析失败
func normalizeVerdict(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func normalizeFlags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		// 不是列表形状，置空
		return []string{}
	}

	flags := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			flags = append(flags, s)
		} else {
			flags = append(flags, fmt.Sprintf("%v", item))
		}
	}
	return flags
}

// describeProviderError 把带原因标签的提供方错误翻译成给运维看的说明
func describeProviderError(err error) string {
	var perr *fetcher.ProviderError
	if errors.As(err, &perr) {
		switch perr.Cause {
		case fetcher.CauseModelNotFound:
			return fmt.Sprintf("AI model not found. The model name may be incorrect or your API key may not have access. Error: %v. Please verify your GEMINI_API_KEY has access to Gemini models.", perr.Err)
		case fetcher.CauseAuth:
			return "API authentication failed. Please check your GEMINI_API_KEY in the .env file."
		case fetcher.CauseQuota:
			return "API quota exceeded. Please try again later."
		}
	}
	return fmt.Sprintf("Analysis error: %v", err)
}
