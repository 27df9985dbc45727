// Package link 保持 article_links 表与文章正文一致
package link

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/content"
	"terminal-terrace/journal-wiki/internal/metrics"
	"terminal-terrace/journal-wiki/internal/model/article"
)

// ErrConstraintViolation 数据库拒绝写入链接集合，外层事务随之回滚
var ErrConstraintViolation = errors.New("link: constraint violation")

// Synchronizer 在调用方的事务内替换文章的出链，自身从不开启或提交事务
type Synchronizer struct {
	logger *slog.Logger
}

func NewSynchronizer(logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{logger: logger}
}

// Sync 使 articleID 的出链恰好等于 refs
// 重复的引用合并，指向不存在文章的引用丢弃；相同 refs 重复调用结果不变
func (s *Synchronizer) Sync(tx *gorm.DB, articleID uint, refs []content.Reference) (err error) {
	defer func() {
		metrics.LinkSyncTotal.WithLabelValues(metrics.Result(err)).Inc()
	}()

	refs = content.Dedupe(refs)
	kept, err := existingTargets(tx, refs)
	if err != nil {
		return err
	}
	if dropped := len(refs) - len(kept); dropped > 0 {
		metrics.LinkSyncDropped.Add(float64(dropped))
		s.logger.Debug("dropped links to missing articles", "article_id", articleID, "dropped", dropped)
	}

	if err := tx.Where("from_article_id = ?", articleID).Delete(&article.ArticleLink{}).Error; err != nil {
		return fmt.Errorf("delete links of article %d: %w", articleID, err)
	}
	if err := insert(tx, articleID, kept); err != nil {
		return err
	}

	metrics.LinkSyncEdges.Observe(float64(len(kept)))
	s.logger.Debug("links synchronized", "article_id", articleID, "edges", len(kept))
	return nil
}

// Outgoing 出链
func (s *Synchronizer) Outgoing(tx *gorm.DB, articleID uint) ([]article.ArticleLink, error) {
	var links []article.ArticleLink
	err := tx.Where("from_article_id = ?", articleID).Order("id").Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list outgoing links of article %d: %w", articleID, err)
	}
	return links, nil
}

// Incoming 反链
func (s *Synchronizer) Incoming(tx *gorm.DB, articleID uint) ([]article.ArticleLink, error) {
	var links []article.ArticleLink
	err := tx.Where("to_article_id = ?", articleID).Order("id").Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list incoming links of article %d: %w", articleID, err)
	}
	return links, nil
}

// DeleteForArticles 删除以 ids 中任一文章为起点或终点的链接
func (s *Synchronizer) DeleteForArticles(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := tx.Where("from_article_id IN ? OR to_article_id IN ?", ids, ids).
		Delete(&article.ArticleLink{}).Error
	if err != nil {
		return fmt.Errorf("delete links of %d articles: %w", len(ids), err)
	}
	return nil
}

func existingTargets(tx *gorm.DB, refs []content.Reference) ([]content.Reference, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ToArticleID)
	}

	var found []uint
	if err := tx.Model(&article.Article{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("resolve link targets: %w", err)
	}

	exists := make(map[uint]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}

	kept := make([]content.Reference, 0, len(refs))
	for _, ref := range refs {
		if _, ok := exists[ref.ToArticleID]; ok {
			kept = append(kept, ref)
		}
	}
	return kept, nil
}

func insert(tx *gorm.DB, articleID uint, refs []content.Reference) error {
	if len(refs) == 0 {
		return nil
	}

	rows := make([]article.ArticleLink, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, article.ArticleLink{
			FromArticleID: articleID,
			ToArticleID:   ref.ToArticleID,
			Anchor:        ref.Anchor,
		})
	}

	if err := tx.Create(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: article %d: %v", ErrConstraintViolation, articleID, err)
		}
		return fmt.Errorf("insert links of article %d: %w", articleID, err)
	}
	return nil
}
