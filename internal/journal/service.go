package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/dto"
	"terminal-terrace/journal-wiki/internal/link"
	"terminal-terrace/journal-wiki/internal/model/journal"
	"terminal-terrace/journal-wiki/internal/sequence"
	"terminal-terrace/journal-wiki/internal/slug"
	"terminal-terrace/journal-wiki/internal/validation"
	"terminal-terrace/journal-wiki/pkg/response"
)

const msgBlankTitle = "Title must not be blank"

// JournalService 日志业务逻辑
// 所有操作都按 ownerID 隔离，其他用户的日志表现为不存在
type JournalService struct {
	db        *gorm.DB
	repo      *JournalRepository
	links     *link.Synchronizer
	sequences *sequence.Service
	logger    *slog.Logger
}

func NewJournalService(db *gorm.DB, links *link.Synchronizer, sequences *sequence.Service, logger *slog.Logger) *JournalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalService{
		db:        db,
		repo:      NewJournalRepository(db),
		links:     links,
		sequences: sequences,
		logger:    logger,
	}
}

// List 当前用户的全部日志
func (s *JournalService) List(ctx context.Context, ownerID uint) ([]journal.Journal, error) {
	return NewJournalRepository(s.db.WithContext(ctx)).ListByOwner(ownerID)
}

// Get 获取日志详情
func (s *JournalService) Get(ctx context.Context, ownerID, id uint) (*journal.Journal, error) {
	return NewJournalRepository(s.db.WithContext(ctx)).GetOwned(id, ownerID)
}

// Create 创建日志
func (s *JournalService) Create(ctx context.Context, ownerID uint, req dto.CreateJournalRequest) (*journal.Journal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, response.Validation(msgBlankTitle)
	}

	j := &journal.Journal{
		OwnerID:     ownerID,
		Title:       title,
		Description: req.Description,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if j.Slug, err = resolveSlug(tx, req.Slug, title, 0); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Create(j)
	})
	if err != nil {
		return nil, translateSlugConflict(err)
	}

	s.logger.Info("journal created", "journal_id", j.ID, "owner_id", ownerID, "slug", j.Slug)
	return j, nil
}

// Update 更新日志，只修改请求中出现的字段
// 修改标题但未指定 slug 时重新生成 slug
func (s *JournalService) Update(ctx context.Context, ownerID, id uint, req dto.UpdateJournalRequest) (*journal.Journal, error) {
	var j *journal.Journal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		if j, err = repo.GetOwned(id, ownerID); err != nil {
			return err
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return response.Validation(msgBlankTitle)
			}
			j.Title = title
		}
		if req.Slug != nil || req.Title != nil {
			if j.Slug, err = resolveSlug(tx, req.Slug, j.Title, j.ID); err != nil {
				return err
			}
		}
		if req.Description != nil {
			j.Description = *req.Description
		}

		return repo.Update(j)
	})
	if err != nil {
		return nil, translateSlugConflict(err)
	}
	return j, nil
}

// Delete 删除日志
// 在同一事务中依次删除：涉及其文章的全部链接、阅读顺序、文章、日志本身
func (s *JournalService) Delete(ctx context.Context, ownerID, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.GetOwned(id, ownerID); err != nil {
			return err
		}

		articleIDs, err := repo.ArticleIDs(id)
		if err != nil {
			return fmt.Errorf("list articles of journal %d: %w", id, err)
		}
		if err := s.links.DeleteForArticles(tx, articleIDs); err != nil {
			return err
		}
		if err := s.sequences.Manager().DeleteJournal(tx, id); err != nil {
			return err
		}
		if err := repo.DeleteWithArticles(id); err != nil {
			return fmt.Errorf("delete journal %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.sequences.Invalidate(ctx, id)
	s.logger.Info("journal deleted", "journal_id", id, "owner_id", ownerID)
	return nil
}

// GetSequence 获取阅读顺序
func (s *JournalService) GetSequence(ctx context.Context, ownerID, id uint) ([]uint, error) {
	return s.sequences.GetSequence(ctx, id, ownedBy(ownerID, id))
}

// ReplaceSequence 整体替换阅读顺序，归属校验与写入在同一事务内
func (s *JournalService) ReplaceSequence(ctx context.Context, ownerID, id uint, ids []uint) ([]uint, error) {
	return s.sequences.ReplaceSequence(ctx, id, ids, ownedBy(ownerID, id))
}

func ownedBy(ownerID, id uint) sequence.Check {
	return func(tx *gorm.DB) error {
		return validation.JournalOwnedBy(tx, id, ownerID)
	}
}

// resolveSlug 显式指定的 slug 只做校验；否则由标题生成并自动追加 -2、-3 等后缀避让
func resolveSlug(tx *gorm.DB, explicit *string, title string, excludeID uint) (string, error) {
	if explicit != nil {
		if s := strings.TrimSpace(*explicit); s != "" {
			if err := validation.SlugFormat(s); err != nil {
				return "", err
			}
			if err := validation.JournalSlugAvailable(tx, s, excludeID); err != nil {
				return "", err
			}
			return s, nil
		}
	}

	return slug.Allocate(func(candidate string) (bool, error) {
		return validation.JournalSlugTaken(tx, candidate, excludeID)
	}, slug.Slugify(title))
}

// translateSlugConflict 并发创建时唯一索引兜底
func translateSlugConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return response.Validation(validation.MsgJournalSlugTaken)
	}
	return err
}
