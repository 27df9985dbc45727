package content

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MaxAnchorLength 锚文本最大长度，与链接表字段宽度一致
const MaxAnchorLength = 255

const articleIDAttr = "data-article-id"

// ExtractReferences 提取文档中的全部链接并去重
// 先是文本字段中的锚点，再是目录块中的条目，各自保持文档顺序
func ExtractReferences(doc Document) []Reference {
	var refs []Reference
	for _, fragment := range fragments(doc) {
		refs = append(refs, extractAnchors(fragment)...)
	}
	refs = append(refs, IndexReferences(ExtractIndexEntries(doc))...)
	return Dedupe(refs)
}

// ExtractIndexEntries 收集所有目录块的条目，article_id 不是正整数的条目被跳过
func ExtractIndexEntries(doc Document) []IndexEntry {
	var entries []IndexEntry
	for _, block := range doc.Blocks {
		if !strings.EqualFold(block.Type, IndexBlockType) {
			continue
		}

		list, ok := block.Data["entries"].([]any)
		if !ok {
			list, _ = block.Data["items"].([]any)
		}
		for _, raw := range list {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			id, ok := positiveID(item["article_id"])
			if !ok {
				continue
			}
			title, _ := item["title"].(string)
			entries = append(entries, IndexEntry{ArticleID: id, Title: strings.TrimSpace(title)})
		}
	}
	return entries
}

// IndexReferences 目录项转换为链接，标题为空时使用 "Article #<id>"
func IndexReferences(entries []IndexEntry) []Reference {
	refs := make([]Reference, 0, len(entries))
	for _, entry := range entries {
		if entry.ArticleID == 0 {
			continue
		}
		anchor := normalizeAnchor(entry.Title)
		if anchor == "" {
			anchor = fmt.Sprintf("Article #%d", entry.ArticleID)
		}
		refs = append(refs, Reference{ToArticleID: entry.ArticleID, Anchor: anchor})
	}
	return refs
}

// Dedupe 按 (目标, 锚文本) 去重，保留首次出现的顺序
func Dedupe(refs []Reference) []Reference {
	seen := make(map[Reference]struct{}, len(refs))
	out := make([]Reference, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}

// extractAnchors 对单个片段分词，返回其中合法的 <a data-article-id="N">label</a>
// 片段结束时仍未闭合的锚点被丢弃
func extractAnchors(fragment string) []Reference {
	if !strings.Contains(fragment, articleIDAttr) {
		return nil
	}

	var (
		refs   []Reference
		open   bool
		target uint
		label  strings.Builder
	)

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return refs
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			if id, ok := anchorTarget(z); ok {
				open, target = true, id
				label.Reset()
			}
		case html.TextToken:
			if open {
				label.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) != "a" || !open {
				continue
			}
			if anchor := normalizeAnchor(label.String()); anchor != "" {
				refs = append(refs, Reference{ToArticleID: target, Anchor: anchor})
			}
			open = false
		}
	}
}

// anchorTarget 读取当前开始标签的 data-article-id，重复出现时以最后一个为准
func anchorTarget(z *html.Tokenizer) (uint, bool) {
	var (
		raw   string
		found bool
	)
	for {
		key, val, more := z.TagAttr()
		if string(key) == articleIDAttr {
			raw, found = string(val), true
		}
		if !more {
			break
		}
	}
	if !found {
		return 0, false
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func normalizeAnchor(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxAnchorLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:MaxAnchorLength]))
}

// positiveID 兼容 JSON 解码后可能出现的各种数字类型
func positiveID(v any) (uint, bool) {
	switch n := v.(type) {
	case float64:
		if n < 1 || n > math.MaxInt64 || n != math.Trunc(n) {
			return 0, false
		}
		return uint(n), true
	case json.Number:
		id, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return uint(id), true
	case int:
		if n <= 0 {
			return 0, false
		}
		return uint(n), true
	case int64:
		if n <= 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, n > 0
	default:
		return 0, false
	}
}
