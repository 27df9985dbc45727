package testutils

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/content"
	"terminal-terrace/journal-wiki/internal/model/article"
	"terminal-terrace/journal-wiki/internal/model/journal"
)

// CreateTestJournal creates a journal with a unique slug
func CreateTestJournal(db *gorm.DB, ownerID uint, opts ...JournalOption) *journal.Journal {
	uniqueID := uuid.NewString()

	testJournal := &journal.Journal{
		OwnerID: ownerID,
		Title:   fmt.Sprintf("Test Journal %s", uniqueID[:8]),
		Slug:    fmt.Sprintf("test-journal-%s", uniqueID),
	}

	for _, opt := range opts {
		opt(testJournal)
	}

	if err := db.Create(testJournal).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test journal: %v", err))
	}

	return testJournal
}

// JournalOption configures test journal
type JournalOption func(*journal.Journal)

// WithJournalTitle sets the title
func WithJournalTitle(title string) JournalOption {
	return func(j *journal.Journal) {
		j.Title = title
	}
}

// WithJournalSlug sets the slug
func WithJournalSlug(slug string) JournalOption {
	return func(j *journal.Journal) {
		j.Slug = slug
	}
}

// CreateTestArticle creates a bare article row. Links are not synchronized.
func CreateTestArticle(db *gorm.DB, journalID uint, opts ...ArticleOption) *article.Article {
	uniqueID := uuid.NewString()

	testArticle := &article.Article{
		JournalID: journalID,
		Title:     fmt.Sprintf("Test Article %s", uniqueID[:8]),
		Slug:      fmt.Sprintf("test-article-%s", uniqueID),
	}

	for _, opt := range opts {
		opt(testArticle)
	}

	if err := db.Create(testArticle).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test article: %v", err))
	}

	return testArticle
}

// ArticleOption configures test article
type ArticleOption func(*article.Article)

// WithArticleTitle sets the title
func WithArticleTitle(title string) ArticleOption {
	return func(a *article.Article) {
		a.Title = title
	}
}

// WithArticleSlug sets the slug
func WithArticleSlug(slug string) ArticleOption {
	return func(a *article.Article) {
		a.Slug = slug
	}
}

// WithArticleContent sets the document and its derived text
func WithArticleContent(doc content.Document) ArticleOption {
	return func(a *article.Article) {
		a.Content = doc
		a.ContentText = content.ExtractText(doc)
	}
}

// CreateTestArticles creates n bare articles in the journal and returns their ids
func CreateTestArticles(db *gorm.DB, journalID uint, n int) []uint {
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, CreateTestArticle(db, journalID).ID)
	}
	return ids
}
