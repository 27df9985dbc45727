package content

import (
	"encoding/json"
	"fmt"
)

// IndexBlockType 目录块类型，数据中列出被链接的文章
const IndexBlockType = "index"

// Block 文档中的一个内容块
type Block struct {
	ID   string         `json:"id,omitempty"`
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// UnmarshalJSON data 不是 JSON 对象时置为 nil，单个异常块不影响整篇文档
func (b *Block) UnmarshalJSON(raw []byte) error {
	var aux struct {
		ID   string          `json:"id"`
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return fmt.Errorf("content: decode block: %w", err)
	}

	b.ID = aux.ID
	b.Type = aux.Type
	b.Data = nil
	if len(aux.Data) > 0 {
		var data map[string]any
		if json.Unmarshal(aux.Data, &data) == nil {
			b.Data = data
		}
	}
	return nil
}

// Document 文章正文
type Document struct {
	Time    int64   `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version,omitempty"`
}

// IsEmpty reports whether the document has no blocks.
func (d Document) IsEmpty() bool {
	return len(d.Blocks) == 0
}

// Reference 从所属文章指向 ToArticleID 的有向链接
type Reference struct {
	ToArticleID uint   `json:"to_article_id"`
	Anchor      string `json:"anchor"`
}

// IndexEntry 目录块中的一项，或请求中显式指定的目录项
type IndexEntry struct {
	ArticleID uint   `json:"article_id"`
	Title     string `json:"title"`
}

// ParseDocument 解析 JSON 文档，空输入返回空文档
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("content: decode document: %w", err)
	}
	return doc, nil
}
