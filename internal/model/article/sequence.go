package article

import "terminal-terrace/journal-wiki/internal/model/journal"

// ArticleSequence 日志内文章的阅读顺序，position 从 0 连续编号
type ArticleSequence struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	JournalID uint `gorm:"not null;uniqueIndex:idx_article_sequences_article,priority:1;uniqueIndex:idx_article_sequences_position,priority:1" json:"journal_id"`
	ArticleID uint `gorm:"not null;uniqueIndex:idx_article_sequences_article,priority:2" json:"article_id"`
	Position  int  `gorm:"not null;uniqueIndex:idx_article_sequences_position,priority:2" json:"position"`

	Journal *journal.Journal `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Article *Article         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (ArticleSequence) TableName() string {
	return "article_sequences"
}
