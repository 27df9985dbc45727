package article

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/content"
	"terminal-terrace/journal-wiki/internal/dto"
	"terminal-terrace/journal-wiki/internal/link"
	"terminal-terrace/journal-wiki/internal/model/article"
	"terminal-terrace/journal-wiki/internal/sequence"
	"terminal-terrace/journal-wiki/internal/slug"
	"terminal-terrace/journal-wiki/internal/validation"
	"terminal-terrace/journal-wiki/pkg/response"
)

const msgBlankTitle = "Title must not be blank"

// ArticleService 文章业务逻辑
// 每次写入正文都在同一事务内重新提取纯文本与链接并同步链接表
type ArticleService struct {
	db        *gorm.DB
	repo      *ArticleRepository
	links     *link.Synchronizer
	sequences *sequence.Service
	logger    *slog.Logger
}

func NewArticleService(db *gorm.DB, links *link.Synchronizer, sequences *sequence.Service, logger *slog.Logger) *ArticleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleService{
		db:        db,
		repo:      NewArticleRepository(db),
		links:     links,
		sequences: sequences,
		logger:    logger,
	}
}

// LinkReferences 文章应有的全部出链：正文锚点与 index 块在前，IndexEntries 在后
func LinkReferences(art *article.Article) []content.Reference {
	refs := content.ExtractReferences(art.Content)
	refs = append(refs, content.IndexReferences(art.IndexEntries)...)
	return content.Dedupe(refs)
}

// applyContent 写入正文并重新计算派生字段
// isIndex / entries 为 nil 时由正文中的 index 块推导
func applyContent(art *article.Article, doc content.Document, isIndex *bool, entries *[]content.IndexEntry) {
	art.Content = doc
	art.ContentText = content.ExtractText(doc)

	if entries != nil {
		art.IndexEntries = sanitizeEntries(*entries)
	} else {
		art.IndexEntries = content.ExtractIndexEntries(doc)
	}

	if isIndex != nil {
		art.IsIndex = *isIndex
	} else {
		art.IsIndex = len(art.IndexEntries) > 0
	}
}

func sanitizeEntries(entries []content.IndexEntry) content.IndexEntries {
	out := make(content.IndexEntries, 0, len(entries))
	for _, e := range entries {
		if e.ArticleID == 0 {
			continue
		}
		out = append(out, content.IndexEntry{ArticleID: e.ArticleID, Title: strings.TrimSpace(e.Title)})
	}
	return out
}

// ListByJournal 日志下的文章列表
func (s *ArticleService) ListByJournal(ctx context.Context, ownerID, journalID uint) ([]article.Article, error) {
	db := s.db.WithContext(ctx)
	if err := validation.JournalOwnedBy(db, journalID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.WithTx(db).ListByJournal(journalID)
}

// Search 日志内搜索文章
func (s *ArticleService) Search(ctx context.Context, ownerID, journalID uint, keyword string) ([]dto.ArticleSearchItem, error) {
	db := s.db.WithContext(ctx)
	if err := validation.JournalOwnedBy(db, journalID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.WithTx(db).Search(journalID, keyword)
}

// Create 创建文章并同步链接
func (s *ArticleService) Create(ctx context.Context, ownerID, journalID uint, req dto.CreateArticleRequest) (*article.Article, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, response.Validation(msgBlankTitle)
	}

	art := &article.Article{JournalID: journalID, Title: title}
	applyContent(art, req.Content, req.IsIndex, req.IndexEntries)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validation.JournalOwnedBy(tx, journalID, ownerID); err != nil {
			return err
		}

		var err error
		if art.Slug, err = resolveSlug(tx, journalID, req.Slug, title, 0); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Create(art); err != nil {
			return err
		}
		return s.links.Sync(tx, art.ID, LinkReferences(art))
	})
	if err != nil {
		return nil, translateSlugConflict(err)
	}

	s.logger.Info("article created", "article_id", art.ID, "journal_id", journalID, "slug", art.Slug)
	return art, nil
}

// Get 获取文章详情
func (s *ArticleService) Get(ctx context.Context, ownerID, id uint) (*article.Article, error) {
	db := s.db.WithContext(ctx)
	if _, err := validation.ArticleOwnedBy(db, id, ownerID); err != nil {
		return nil, err
	}
	return s.repo.WithTx(db).GetByID(id)
}

// Update 更新文章，只修改请求中出现的字段
// 修改标题但未指定 slug 时重新生成 slug；无论改了什么都会重新同步链接
func (s *ArticleService) Update(ctx context.Context, ownerID, id uint, req dto.UpdateArticleRequest) (*article.Article, error) {
	var art *article.Article
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := validation.ArticleOwnedBy(tx, id, ownerID); err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		var err error
		if art, err = repo.GetByID(id); err != nil {
			return err
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return response.Validation(msgBlankTitle)
			}
			art.Title = title
		}
		if req.Slug != nil || req.Title != nil {
			if art.Slug, err = resolveSlug(tx, art.JournalID, req.Slug, art.Title, art.ID); err != nil {
				return err
			}
		}

		if req.Content != nil {
			applyContent(art, *req.Content, req.IsIndex, req.IndexEntries)
		} else {
			if req.IndexEntries != nil {
				art.IndexEntries = sanitizeEntries(*req.IndexEntries)
			}
			if req.IsIndex != nil {
				art.IsIndex = *req.IsIndex
			}
		}

		if err := repo.Update(art); err != nil {
			return err
		}
		return s.links.Sync(tx, art.ID, LinkReferences(art))
	})
	if err != nil {
		return nil, translateSlugConflict(err)
	}
	return art, nil
}

// Delete 删除文章
// 在同一事务中删除其出链与反链、从阅读顺序中移除并压缩位置，最后删除文章本身
func (s *ArticleService) Delete(ctx context.Context, ownerID, id uint) error {
	var journalID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if journalID, err = validation.ArticleOwnedBy(tx, id, ownerID); err != nil {
			return err
		}
		if err := s.links.DeleteForArticles(tx, []uint{id}); err != nil {
			return err
		}
		if err := s.sequences.Manager().RemoveArticle(tx, journalID, id); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return err
	}

	s.sequences.Invalidate(ctx, journalID)
	s.logger.Info("article deleted", "article_id", id, "journal_id", journalID)
	return nil
}

// Neighbors 阅读顺序中的上一篇与下一篇
func (s *ArticleService) Neighbors(ctx context.Context, ownerID, id uint) (sequence.Neighbors, error) {
	if _, err := validation.ArticleOwnedBy(s.db.WithContext(ctx), id, ownerID); err != nil {
		return sequence.Neighbors{}, err
	}
	return s.sequences.GetNeighbors(ctx, id)
}

// Links 出链
func (s *ArticleService) Links(ctx context.Context, ownerID, id uint) ([]dto.LinkItem, error) {
	db := s.db.WithContext(ctx)
	if _, err := validation.ArticleOwnedBy(db, id, ownerID); err != nil {
		return nil, err
	}
	return s.repo.WithTx(db).Outgoing(id)
}

// Backlinks 反链
func (s *ArticleService) Backlinks(ctx context.Context, ownerID, id uint) ([]dto.LinkItem, error) {
	db := s.db.WithContext(ctx)
	if _, err := validation.ArticleOwnedBy(db, id, ownerID); err != nil {
		return nil, err
	}
	return s.repo.WithTx(db).Incoming(id)
}

// resolveSlug 显式指定的 slug 只做校验；否则由标题生成并在日志内自动避让重名
func resolveSlug(tx *gorm.DB, journalID uint, explicit *string, title string, excludeID uint) (string, error) {
	if explicit != nil {
		if s := strings.TrimSpace(*explicit); s != "" {
			if err := validation.SlugFormat(s); err != nil {
				return "", err
			}
			if err := validation.ArticleSlugAvailable(tx, journalID, s, excludeID); err != nil {
				return "", err
			}
			return s, nil
		}
	}

	return slug.Allocate(func(candidate string) (bool, error) {
		return validation.ArticleSlugTaken(tx, journalID, candidate, excludeID)
	}, slug.Slugify(title))
}

// translateSlugConflict 并发写入时唯一索引兜底
func translateSlugConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return response.Validation(validation.MsgArticleSlugTaken)
	}
	return err
}
