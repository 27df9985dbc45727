// Package validation 日志、文章与阅读顺序共用的写前校验
// 所有校验都在调用方事务内执行，失败时返回 *response.BusinessError
package validation

import (
	"fmt"

	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/model/article"
	"terminal-terrace/journal-wiki/internal/model/journal"
	"terminal-terrace/journal-wiki/internal/slug"
	"terminal-terrace/journal-wiki/pkg/response"
)

const (
	MsgDuplicateIDs     = "Sequence contains duplicate article ids"
	MsgForeignArticles  = "Sequence contains articles outside the journal"
	MsgJournalNotFound  = "Journal not found"
	MsgArticleNotFound  = "Article not found"
	MsgArticleSlugTaken = "Article slug already exists in this journal"
	MsgJournalSlugTaken = "Journal slug already exists"
	MsgInvalidSlug      = "Slug must contain only lowercase letters, digits and single hyphens"
)

// DuplicateIDs 拒绝包含重复文章的列表
func DuplicateIDs(ids []uint) error {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return response.Validation(MsgDuplicateIDs)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// JournalExists 日志不存在时返回 NotFound
func JournalExists(tx *gorm.DB, journalID uint) error {
	var count int64
	if err := tx.Model(&journal.Journal{}).Where("id = ?", journalID).Count(&count).Error; err != nil {
		return fmt.Errorf("count journal %d: %w", journalID, err)
	}
	if count == 0 {
		return response.NotFoundError(MsgJournalNotFound)
	}
	return nil
}

// JournalMembership 拒绝不属于该日志的文章，ids 须已去重
func JournalMembership(tx *gorm.DB, journalID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	var count int64
	err := tx.Model(&article.Article{}).
		Where("journal_id = ? AND id IN ?", journalID, ids).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("count members of journal %d: %w", journalID, err)
	}
	if count != int64(len(ids)) {
		return response.Validation(MsgForeignArticles)
	}
	return nil
}

// SlugFormat 校验 slug 格式
func SlugFormat(s string) error {
	if !slug.Valid(s) {
		return response.Validation(MsgInvalidSlug)
	}
	return nil
}

// ArticleSlugTaken 同一日志内是否已有其他文章使用 s
// excludeID 为正在更新的文章，创建时传 0
func ArticleSlugTaken(tx *gorm.DB, journalID uint, s string, excludeID uint) (bool, error) {
	q := tx.Model(&article.Article{}).Where("journal_id = ? AND slug = ?", journalID, s)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check article slug %q: %w", s, err)
	}
	return count > 0, nil
}

// ArticleSlugAvailable is ArticleSlugTaken as a predicate.
func ArticleSlugAvailable(tx *gorm.DB, journalID uint, s string, excludeID uint) error {
	taken, err := ArticleSlugTaken(tx, journalID, s, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return response.Validation(MsgArticleSlugTaken)
	}
	return nil
}

// JournalSlugTaken 是否已有其他日志使用 s（全局唯一）
func JournalSlugTaken(tx *gorm.DB, s string, excludeID uint) (bool, error) {
	q := tx.Model(&journal.Journal{}).Where("slug = ?", s)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check journal slug %q: %w", s, err)
	}
	return count > 0, nil
}

// JournalSlugAvailable is JournalSlugTaken as a predicate.
func JournalSlugAvailable(tx *gorm.DB, s string, excludeID uint) error {
	taken, err := JournalSlugTaken(tx, s, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return response.Validation(MsgJournalSlugTaken)
	}
	return nil
}

// JournalOwnedBy 日志不存在或属于他人时都返回 NotFound
func JournalOwnedBy(tx *gorm.DB, journalID, ownerID uint) error {
	var count int64
	err := tx.Model(&journal.Journal{}).
		Where("id = ? AND owner_id = ?", journalID, ownerID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check owner of journal %d: %w", journalID, err)
	}
	if count == 0 {
		return response.NotFoundError(MsgJournalNotFound)
	}
	return nil
}

// ArticleOwnedBy 返回 ownerID 名下文章所属的日志，文章不存在或属于他人时返回 NotFound
func ArticleOwnedBy(tx *gorm.DB, articleID, ownerID uint) (uint, error) {
	var journalIDs []uint
	err := tx.Model(&article.Article{}).
		Joins("JOIN journals ON journals.id = articles.journal_id").
		Where("articles.id = ? AND journals.owner_id = ?", articleID, ownerID).
		Limit(1).
		Pluck("articles.journal_id", &journalIDs).Error
	if err != nil {
		return 0, fmt.Errorf("check owner of article %d: %w", articleID, err)
	}
	if len(journalIDs) == 0 {
		return 0, response.NotFoundError(MsgArticleNotFound)
	}
	return journalIDs[0], nil
}
