// Package sequence 维护日志内文章的阅读顺序
//
// 每篇参与排序的文章一行，position 从 0 开始连续编号。
// 替换顺序时整体重写该日志的全部行，位置不会出现空洞，
// 查询相邻文章只需两次走索引的点查。
package sequence

import (
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/model/article"
	"terminal-terrace/journal-wiki/internal/validation"
	"terminal-terrace/journal-wiki/pkg/response"
)

// Neighbors 阅读顺序中的上一篇与下一篇，nil 表示到达边界或文章未参与排序
type Neighbors struct {
	Prev *uint `json:"prev_article_id"`
	Next *uint `json:"next_article_id"`
}

// Manager 在调用方提供的事务内执行顺序操作
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Replace 校验 ids 后将其作为 journalID 的完整顺序，校验失败时不写入任何数据
func (m *Manager) Replace(tx *gorm.DB, journalID uint, ids []uint) ([]uint, error) {
	if err := validation.JournalExists(tx, journalID); err != nil {
		return nil, err
	}
	if err := validation.DuplicateIDs(ids); err != nil {
		return nil, err
	}
	if err := validation.JournalMembership(tx, journalID, ids); err != nil {
		return nil, err
	}

	if err := write(tx, journalID, ids); err != nil {
		return nil, err
	}
	return m.Get(tx, journalID)
}

// Get 当前顺序，未设置时返回空列表
func (m *Manager) Get(tx *gorm.DB, journalID uint) ([]uint, error) {
	ids := []uint{}
	err := tx.Model(&article.ArticleSequence{}).
		Where("journal_id = ?", journalID).
		Order("position, id").
		Pluck("article_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("get sequence of journal %d: %w", journalID, err)
	}
	return ids, nil
}

// Neighbors 查询 articleID 的相邻文章
func (m *Manager) Neighbors(tx *gorm.DB, articleID uint) (Neighbors, error) {
	var count int64
	if err := tx.Model(&article.Article{}).Where("id = ?", articleID).Count(&count).Error; err != nil {
		return Neighbors{}, fmt.Errorf("count article %d: %w", articleID, err)
	}
	if count == 0 {
		return Neighbors{}, response.NotFoundError(validation.MsgArticleNotFound)
	}

	var entry article.ArticleSequence
	err := tx.Where("article_id = ?", articleID).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Neighbors{}, nil
	}
	if err != nil {
		return Neighbors{}, fmt.Errorf("get sequence entry of article %d: %w", articleID, err)
	}

	var n Neighbors
	if n.Prev, err = articleAt(tx, entry.JournalID, entry.Position-1); err != nil {
		return Neighbors{}, err
	}
	if n.Next, err = articleAt(tx, entry.JournalID, entry.Position+1); err != nil {
		return Neighbors{}, err
	}
	return n, nil
}

// RemoveArticle 从顺序中移除文章并压缩位置，未参与排序的文章忽略
func (m *Manager) RemoveArticle(tx *gorm.DB, journalID, articleID uint) error {
	ids, err := m.Get(tx, journalID)
	if err != nil {
		return err
	}

	i := slices.Index(ids, articleID)
	if i < 0 {
		return nil
	}
	// 整体重写，避免逐行平移位置时触发 (journal_id, position) 唯一约束
	return write(tx, journalID, slices.Delete(ids, i, i+1))
}

// DeleteJournal 删除日志的全部顺序
func (m *Manager) DeleteJournal(tx *gorm.DB, journalID uint) error {
	if err := tx.Where("journal_id = ?", journalID).Delete(&article.ArticleSequence{}).Error; err != nil {
		return fmt.Errorf("delete sequence of journal %d: %w", journalID, err)
	}
	return nil
}

func write(tx *gorm.DB, journalID uint, ids []uint) error {
	if err := tx.Where("journal_id = ?", journalID).Delete(&article.ArticleSequence{}).Error; err != nil {
		return fmt.Errorf("clear sequence of journal %d: %w", journalID, err)
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]article.ArticleSequence, 0, len(ids))
	for i, id := range ids {
		rows = append(rows, article.ArticleSequence{JournalID: journalID, ArticleID: id, Position: i})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("write sequence of journal %d: %w", journalID, err)
	}
	return nil
}

func articleAt(tx *gorm.DB, journalID uint, position int) (*uint, error) {
	if position < 0 {
		return nil, nil
	}

	var ids []uint
	err := tx.Model(&article.ArticleSequence{}).
		Where("journal_id = ? AND position = ?", journalID, position).
		Limit(1).
		Pluck("article_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("get article at position %d of journal %d: %w", position, journalID, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}
