package article

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/dto"
	"terminal-terrace/journal-wiki/internal/model/article"
	"terminal-terrace/journal-wiki/internal/validation"
	"terminal-terrace/journal-wiki/pkg/response"
)

// SearchLimit 搜索结果上限
const SearchLimit = 20

// ArticleRepository 文章仓储层
type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *ArticleRepository) WithTx(tx *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: tx}
}

// ===== Article 基础操作 =====

func (r *ArticleRepository) GetByID(id uint) (*article.Article, error) {
	var art article.Article
	err := r.db.Take(&art, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NotFoundError(validation.MsgArticleNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &art, nil
}

func (r *ArticleRepository) Create(art *article.Article) error {
	return r.db.Create(art).Error
}

func (r *ArticleRepository) Update(art *article.Article) error {
	return r.db.Save(art).Error
}

func (r *ArticleRepository) Delete(id uint) error {
	return r.db.Delete(&article.Article{}, id).Error
}

// ListByJournal 日志下的全部文章，按创建顺序
func (r *ArticleRepository) ListByJournal(journalID uint) ([]article.Article, error) {
	articles := []article.Article{}
	err := r.db.Where("journal_id = ?", journalID).Order("id").Find(&articles).Error
	return articles, err
}

// Search 按标题或正文做大小写不敏感的子串匹配，最近更新的在前
// 关键字为空时返回最近更新的文章
func (r *ArticleRepository) Search(journalID uint, keyword string) ([]dto.ArticleSearchItem, error) {
	query := r.db.Model(&article.Article{}).Where("journal_id = ?", journalID)

	if keyword = strings.TrimSpace(keyword); keyword != "" {
		pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
		query = query.Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content_text) LIKE ? ESCAPE '\'`,
			pattern, pattern,
		)
	}

	items := []dto.ArticleSearchItem{}
	err := query.Select("id", "title").
		Order("updated_at DESC").
		Order("id DESC").
		Limit(SearchLimit).
		Scan(&items).Error
	return items, err
}

// Outgoing 出链，附带目标文章的标题
func (r *ArticleRepository) Outgoing(articleID uint) ([]dto.LinkItem, error) {
	items := []dto.LinkItem{}
	err := r.db.Model(&article.ArticleLink{}).
		Select("articles.id AS article_id, articles.title, articles.slug, article_links.anchor").
		Joins("JOIN articles ON articles.id = article_links.to_article_id").
		Where("article_links.from_article_id = ?", articleID).
		Order("article_links.id").
		Scan(&items).Error
	return items, err
}

// Incoming 反链，附带来源文章的标题
func (r *ArticleRepository) Incoming(articleID uint) ([]dto.LinkItem, error) {
	items := []dto.LinkItem{}
	err := r.db.Model(&article.ArticleLink{}).
		Select("articles.id AS article_id, articles.title, articles.slug, article_links.anchor").
		Joins("JOIN articles ON articles.id = article_links.from_article_id").
		Where("article_links.to_article_id = ?", articleID).
		Order("article_links.id").
		Scan(&items).Error
	return items, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
