package service

import "fmt"

// TargetTypeCrypto 目前唯一支持的调查目标类型
// 预留给将来的领域分类，下游不做分支
const TargetTypeCrypto = "crypto"

// queryTemplates 加密货币调查的固定查询模板
// 围绕诈骗/安全/跑路信号，每次调查恰好3条
var queryTemplates = []string{
	"%s crypto scam fraud rug pull",
	"%s cryptocurrency security audit vulnerabilities",
	"%s crypto exchange hack exploit allegations",
}

// GenerateQueries 为目标生成固定的3条高意图搜索查询
// 纯函数，无I/O，任意字符串输入原样拼入模板
func GenerateQueries(target string) (queries []string, targetType string) {
	queries = make([]string, 0, len(queryTemplates))
	for _, tmpl := range queryTemplates {
		queries = append(queries, fmt.Sprintf(tmpl, target))
	}
	return queries, TargetTypeCrypto
}
