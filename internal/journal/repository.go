package journal

import (
	"errors"

	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/model/article"
	"terminal-terrace/journal-wiki/internal/model/journal"
	"terminal-terrace/journal-wiki/internal/validation"
	"terminal-terrace/journal-wiki/pkg/response"
)

// JournalRepository 日志仓储层
type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *JournalRepository) WithTx(tx *gorm.DB) *JournalRepository {
	return &JournalRepository{db: tx}
}

func (r *JournalRepository) ListByOwner(ownerID uint) ([]journal.Journal, error) {
	journals := []journal.Journal{}
	err := r.db.Where("owner_id = ?", ownerID).Order("id").Find(&journals).Error
	return journals, err
}

// GetOwned 获取属于 ownerID 的日志，不存在或不属于该用户时返回 NotFound
func (r *JournalRepository) GetOwned(id, ownerID uint) (*journal.Journal, error) {
	var j journal.Journal
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NotFoundError(validation.MsgJournalNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JournalRepository) Create(j *journal.Journal) error {
	return r.db.Create(j).Error
}

func (r *JournalRepository) Update(j *journal.Journal) error {
	return r.db.Save(j).Error
}

// ArticleIDs 日志下所有文章的 ID
func (r *JournalRepository) ArticleIDs(journalID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&article.Article{}).Where("journal_id = ?", journalID).Pluck("id", &ids).Error
	return ids, err
}

// DeleteWithArticles 删除日志及其全部文章行，链接和阅读顺序需由调用方先行清理
func (r *JournalRepository) DeleteWithArticles(journalID uint) error {
	if err := r.db.Where("journal_id = ?", journalID).Delete(&article.Article{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&journal.Journal{}, journalID).Error
}
