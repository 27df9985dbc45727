package article

import "time"

// ArticleLink 文章间的 wiki 链接（有向边）
// 同一张表按 from / to 两个方向查询：出链与反链
type ArticleLink struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FromArticleID uint      `gorm:"not null;uniqueIndex:idx_article_links_edge,priority:1" json:"from_article_id"`
	ToArticleID   uint      `gorm:"not null;index;uniqueIndex:idx_article_links_edge,priority:2" json:"to_article_id"`
	Anchor        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_article_links_edge,priority:3" json:"anchor"`
	CreatedAt     time.Time `json:"created_at"`

	// 级联删除仅作为存储层兜底，业务代码会显式删除
	From *Article `gorm:"foreignKey:FromArticleID;constraint:OnDelete:CASCADE" json:"-"`
	To   *Article `gorm:"foreignKey:ToArticleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ArticleLink) TableName() string {
	return "article_links"
}
