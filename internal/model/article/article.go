// Package article 文章、文章链接与阅读顺序模型
package article

import (
	"time"

	"terminal-terrace/journal-wiki/internal/content"
	"terminal-terrace/journal-wiki/internal/model/journal"
)

// Article 文章表，slug 在同一日志内唯一
type Article struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	JournalID uint             `gorm:"not null;uniqueIndex:idx_articles_journal_slug,priority:1" json:"journal_id"`
	Journal   *journal.Journal `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Slug      string           `gorm:"type:varchar(255);not null;uniqueIndex:idx_articles_journal_slug,priority:2" json:"slug"`
	// 富文本块文档（postgres 为 JSONB）
	Content content.Document `gorm:"not null" json:"content"`
	// 由 Content 派生的纯文本，只在写入 Content 时重新计算
	ContentText string `gorm:"type:text;not null;default:''" json:"content_text"`
	// 索引页：IndexEntries 中的条目同样计入链接
	IsIndex      bool                 `gorm:"not null;default:false" json:"is_index"`
	IndexEntries content.IndexEntries `json:"index_entries"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `gorm:"index" json:"updated_at"`
}

func (Article) TableName() string {
	return "articles"
}
