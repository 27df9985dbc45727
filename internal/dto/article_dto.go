package dto

import "terminal-terrace/journal-wiki/internal/content"

// CreateArticleRequest 创建文章请求
// IsIndex / IndexEntries 未提供时由正文中的 index 块推导
type CreateArticleRequest struct {
	Title        string                `json:"title" binding:"required,max=255"`
	Slug         *string               `json:"slug" binding:"omitempty,max=255"`
	Content      content.Document      `json:"content"`
	IsIndex      *bool                 `json:"is_index"`
	IndexEntries *[]content.IndexEntry `json:"index_entries"`
}

// UpdateArticleRequest 更新文章请求，未提供的字段保持不变
type UpdateArticleRequest struct {
	Title        *string               `json:"title" binding:"omitempty,min=1,max=255"`
	Slug         *string               `json:"slug" binding:"omitempty,max=255"`
	Content      *content.Document     `json:"content"`
	IsIndex      *bool                 `json:"is_index"`
	IndexEntries *[]content.IndexEntry `json:"index_entries"`
}

// ArticleSearchItem 搜索结果条目
type ArticleSearchItem struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// LinkItem 链接列表条目，ArticleID 为链接另一端的文章
type LinkItem struct {
	ArticleID uint   `json:"article_id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Anchor    string `json:"anchor"`
}
