package fetcher

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanSnippet 清理搜索结果文本：去掉HTML标记、解码实体、压缩空白
// 搜索API返回的title/content偶尔带有<b>高亮标签和&amp;之类的实体，
// 这些直接拼进LLM prompt会干扰分析
func CleanSnippet(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return collapseWhitespace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(s)
	}

	return collapseWhitespace(doc.Text())
}

// collapseWhitespace 把连续空白压缩成单个空格
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
