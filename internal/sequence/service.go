package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/metrics"
	"terminal-terrace/journal-wiki/internal/model/article"
	"terminal-terrace/journal-wiki/internal/validation"
	"terminal-terrace/journal-wiki/pkg/response"
)

// Service 每个操作使用独立事务，并保证相邻缓存与已提交数据一致
type Service struct {
	db      *gorm.DB
	manager *Manager
	cache   *NeighborCache
	logger  *slog.Logger
}

// NewService cache 可以为 nil，此时不使用缓存
func NewService(db *gorm.DB, cache *NeighborCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, manager: NewManager(), cache: cache, logger: logger}
}

// Manager exposes the transactional operations for callers that compose them
// into larger units of work.
func (s *Service) Manager() *Manager {
	return s.manager
}

// Check 在操作所在的事务内执行的前置检查，例如归属校验
type Check func(tx *gorm.DB) error

func runChecks(tx *gorm.DB, checks []Check) error {
	for _, check := range checks {
		if err := check(tx); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceSequence 整体替换阅读顺序，提交后使缓存失效
// checks 与写入处于同一事务，任一失败则不写入
func (s *Service) ReplaceSequence(ctx context.Context, journalID uint, ids []uint, checks ...Check) ([]uint, error) {
	var result []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := runChecks(tx, checks); err != nil {
			return err
		}
		var err error
		result, err = s.manager.Replace(tx, journalID, ids)
		return err
	})
	metrics.SequenceReplaceTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	metrics.SequenceLength.Observe(float64(len(result)))
	s.Invalidate(ctx, journalID)
	s.logger.Info("sequence replaced", "journal_id", journalID, "length", len(result))
	return result, nil
}

// GetSequence 获取阅读顺序
func (s *Service) GetSequence(ctx context.Context, journalID uint, checks ...Check) ([]uint, error) {
	var result []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := runChecks(tx, checks); err != nil {
			return err
		}
		if err := validation.JournalExists(tx, journalID); err != nil {
			return err
		}
		var err error
		result, err = s.manager.Get(tx, journalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetNeighbors 上一篇与下一篇，优先读缓存
func (s *Service) GetNeighbors(ctx context.Context, articleID uint) (Neighbors, error) {
	db := s.db.WithContext(ctx)
	if s.cache == nil {
		return s.manager.Neighbors(db, articleID)
	}

	journalID, err := journalOf(db, articleID)
	if err != nil {
		return Neighbors{}, err
	}

	// 先读取代数再查库：并发写入提交后会递增代数，旧数据只会落在被废弃的代数下
	gen, err := s.cache.Generation(ctx, journalID)
	if err != nil {
		return s.manager.Neighbors(db, articleID)
	}
	if n, ok := s.cache.Get(ctx, journalID, gen, articleID); ok {
		return n, nil
	}

	n, err := s.manager.Neighbors(db, articleID)
	if err != nil {
		return Neighbors{}, err
	}
	s.cache.Put(ctx, journalID, gen, articleID, n)
	return n, nil
}

// Invalidate 使日志的相邻缓存失效，须在顺序变更提交之后调用
func (s *Service) Invalidate(ctx context.Context, journalID uint) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, journalID)
	}
}

func journalOf(db *gorm.DB, articleID uint) (uint, error) {
	var a article.Article
	err := db.Select("id", "journal_id").Take(&a, articleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, response.NotFoundError(validation.MsgArticleNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get article %d: %w", articleID, err)
	}
	return a.JournalID, nil
}
