package model

import (
	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/model/article"
	"terminal-terrace/journal-wiki/internal/model/journal"
)

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构，按依赖顺序
	err := db.AutoMigrate(
		// 日志
		&journal.Journal{},
		// 文章及其链接、阅读顺序
		&article.Article{},
		&article.ArticleLink{},
		&article.ArticleSequence{},
	)
	if err != nil {
		return err
	}
	return nil
}
