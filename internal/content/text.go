package content

import (
	"regexp"
	"strings"
)

// textKeys 参与纯文本投影的字段，按输出顺序排列
var textKeys = []string{"text", "caption", "title", "message"}

// tagPattern 去掉 < 与 > 之间的全部内容
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripTags 去除标签与首尾空白
func StripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// ExtractText 文档的纯文本投影，按行拼接
func ExtractText(doc Document) string {
	var lines []string
	for _, fragment := range fragments(doc) {
		if line := StripTags(fragment); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// fragments 两种提取共用的字符串片段
// 每个块先按顺序取 textKeys，再取 items 中的字符串
func fragments(doc Document) []string {
	var out []string
	for _, block := range doc.Blocks {
		for _, key := range textKeys {
			if value, ok := block.Data[key].(string); ok && strings.TrimSpace(value) != "" {
				out = append(out, value)
			}
		}

		items, ok := block.Data["items"].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			if value, ok := item.(string); ok && strings.TrimSpace(value) != "" {
				out = append(out, value)
			}
		}
	}
	return out
}
