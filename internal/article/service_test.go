package article

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/content"
	"terminal-terrace/journal-wiki/internal/dto"
	"terminal-terrace/journal-wiki/internal/link"
	modelArticle "terminal-terrace/journal-wiki/internal/model/article"
	"terminal-terrace/journal-wiki/internal/sequence"
	"terminal-terrace/journal-wiki/internal/testutils"
	"terminal-terrace/journal-wiki/pkg/response"
)

const ownerID uint = 7

func setupService(t *testing.T) (*gorm.DB, *ArticleService, *sequence.Service) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	sequences := sequence.NewService(db, nil, nil)
	return db, NewArticleService(db, link.NewSynchronizer(nil), sequences, nil), sequences
}

func paragraph(html string) content.Block {
	return content.Block{Type: "paragraph", Data: map[string]any{"text": html}}
}

func anchor(id uint, label string) string {
	return fmt.Sprintf(`<a data-article-id="%d">%s</a>`, id, label)
}

func outgoing(t *testing.T, db *gorm.DB, id uint) []content.Reference {
	t.Helper()
	var links []modelArticle.ArticleLink
	require.NoError(t, db.Where("from_article_id = ?", id).Order("id").Find(&links).Error)
	refs := make([]content.Reference, 0, len(links))
	for _, l := range links {
		refs = append(refs, content.Reference{ToArticleID: l.ToArticleID, Anchor: l.Anchor})
	}
	return refs
}

func TestCreate_ExtractsTextAndSyncsLinks(t *testing.T) {
	db, svc, _ := setupService(t)
	journalID := testutils.CreateTestJournal(db, ownerID).ID
	target := testutils.CreateTestArticle(db, journalID)

	art, err := svc.Create(context.Background(), ownerID, journalID, dto.CreateArticleRequest{
		Title: "Getting Started",
		Content: content.Document{Blocks: []content.Block{
			paragraph("See " + anchor(target.ID, "Target") + " first"),
			paragraph(anchor(9999, "Missing")),
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "getting-started", art.Slug)
	assert.Equal(t, "See Target first\nMissing", art.ContentText)
	assert.False(t, art.IsIndex)
	assert.Equal(t, []content.Reference{{ToArticleID: target.ID, Anchor: "Target"}}, outgoing(t, db, art.ID))
}

func TestCreate_SlugAllocation(t *testing.T) {
	db, svc, _ := setupService(t)
	ctx := context.Background()
	journalID := testutils.CreateTestJournal(db, ownerID).ID

	first, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{Title: "Notes"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{Title: "Notes"})
	require.NoError(t, err)

	assert.Equal(t, "notes", first.Slug)
	assert.Equal(t, "notes-2", second.Slug)

	explicit := "notes"
	_, err = svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{Title: "Other", Slug: &explicit})
	assert.True(t, response.IsCode(err, response.InvalidParameter))

	// slugs are scoped to the journal
	otherJournal := testutils.CreateTestJournal(db, ownerID).ID
	third, err := svc.Create(ctx, ownerID, otherJournal, dto.CreateArticleRequest{Title: "Notes"})
	require.NoError(t, err)
	assert.Equal(t, "notes", third.Slug)
}

func TestCreate_Validation(t *testing.T) {
	db, svc, _ := setupService(t)
	ctx := context.Background()
	journalID := testutils.CreateTestJournal(db, ownerID).ID

	_, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{Title: "   "})
	assert.True(t, response.IsCode(err, response.InvalidParameter))

	_, err = svc.Create(ctx, ownerID+1, journalID, dto.CreateArticleRequest{Title: "Intruder"})
	assert.True(t, response.IsCode(err, response.NotFound))

	var count int64
	require.NoError(t, db.Model(&modelArticle.Article{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreate_IndexEntries(t *testing.T) {
	db, svc, _ := setupService(t)
	ctx := context.Background()
	journalID := testutils.CreateTestJournal(db, ownerID).ID
	ids := testutils.CreateTestArticles(db, journalID, 2)

	derived, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{
		Title: "Contents",
		Content: content.Document{Blocks: []content.Block{{
			Type: content.IndexBlockType,
			Data: map[string]any{"entries": []any{
				map[string]any{"article_id": float64(ids[0]), "title": "Part one"},
				map[string]any{"article_id": float64(ids[1])},
			}},
		}}},
	})
	require.NoError(t, err)
	assert.True(t, derived.IsIndex)
	assert.Len(t, derived.IndexEntries, 2)
	assert.Equal(t, []content.Reference{
		{ToArticleID: ids[0], Anchor: "Part one"},
		{ToArticleID: ids[1], Anchor: fmt.Sprintf("Article #%d", ids[1])},
	}, outgoing(t, db, derived.ID))

	notIndex := false
	entries := []content.IndexEntry{{ArticleID: ids[1], Title: " Appendix "}, {ArticleID: 0, Title: "dropped"}}
	explicit, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{
		Title:        "Manual",
		IsIndex:      &notIndex,
		IndexEntries: &entries,
	})
	require.NoError(t, err)
	assert.False(t, explicit.IsIndex)
	assert.Equal(t, content.IndexEntries{{ArticleID: ids[1], Title: "Appendix"}}, explicit.IndexEntries)
	assert.Equal(t, []content.Reference{{ToArticleID: ids[1], Anchor: "Appendix"}}, outgoing(t, db, explicit.ID))
}

func TestUpdate_ResyncsLinks(t *testing.T) {
	db, svc, _ := setupService(t)
	ctx := context.Background()
	journalID := testutils.CreateTestJournal(db, ownerID).ID
	ids := testutils.CreateTestArticles(db, journalID, 2)

	art, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{
		Title:   "Hub",
		Content: content.Document{Blocks: []content.Block{paragraph(anchor(ids[0], "First"))}},
	})
	require.NoError(t, err)

	doc := content.Document{Blocks: []content.Block{paragraph(anchor(ids[1], "Second"))}}
	updated, err := svc.Update(ctx, ownerID, art.ID, dto.UpdateArticleRequest{Content: &doc})
	require.NoError(t, err)
	assert.Equal(t, "Second", updated.ContentText)
	assert.Equal(t, "hub", updated.Slug)
	assert.Equal(t, []content.Reference{{ToArticleID: ids[1], Anchor: "Second"}}, outgoing(t, db, art.ID))

	title := "Renamed Hub"
	updated, err = svc.Update(ctx, ownerID, art.ID, dto.UpdateArticleRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed-hub", updated.Slug)
	assert.Equal(t, []content.Reference{{ToArticleID: ids[1], Anchor: "Second"}}, outgoing(t, db, art.ID))

	empty := content.Document{}
	_, err = svc.Update(ctx, ownerID, art.ID, dto.UpdateArticleRequest{Content: &empty})
	require.NoError(t, err)
	assert.Empty(t, outgoing(t, db, art.ID))
}

func TestUpdate_LinkConflictRollsBackWrite(t *testing.T) {
	db, svc, _ := setupService(t)
	ctx := context.Background()
	journalID := testutils.CreateTestJournal(db, ownerID).ID
	ids := testutils.CreateTestArticles(db, journalID, 2)

	art, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{
		Title:   "Stable",
		Content: content.Document{Blocks: []content.Block{paragraph(anchor(ids[0], "old"))}},
	})
	require.NoError(t, err)

	// 链接表的任何插入都报唯一约束冲突
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:link_conflict", func(tx *gorm.DB) {
		if tx.Statement.Table == "article_links" {
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	}))
	t.Cleanup(func() { _ = db.Callback().Create().Remove("test:link_conflict") })

	title := "Changed"
	doc := content.Document{Blocks: []content.Block{paragraph(anchor(ids[1], "new"))}}
	_, err = svc.Update(ctx, ownerID, art.ID, dto.UpdateArticleRequest{Title: &title, Content: &doc})
	require.Error(t, err)
	assert.True(t, errors.Is(err, link.ErrConstraintViolation))

	var stored modelArticle.Article
	require.NoError(t, db.First(&stored, art.ID).Error)
	assert.Equal(t, "Stable", stored.Title)
	assert.Equal(t, "stable", stored.Slug)
	assert.Equal(t, "old", stored.ContentText)
	assert.Equal(t, []content.Reference{{ToArticleID: ids[0], Anchor: "old"}}, outgoing(t, db, art.ID))
}

func TestDelete_RemovesEdgesAndCompactsSequence(t *testing.T) {
	db, svc, sequences := setupService(t)
	ctx := context.Background()
	journalID := testutils.CreateTestJournal(db, ownerID).ID
	ids := testutils.CreateTestArticles(db, journalID, 2)

	hub, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{
		Title:   "Hub",
		Content: content.Document{Blocks: []content.Block{paragraph(anchor(ids[0], "First"))}},
	})
	require.NoError(t, err)
	_, err = svc.Update(ctx, ownerID, ids[1], dto.UpdateArticleRequest{
		Content: &content.Document{Blocks: []content.Block{paragraph(anchor(hub.ID, "Back to hub"))}},
	})
	require.NoError(t, err)

	_, err = sequences.ReplaceSequence(ctx, journalID, []uint{ids[0], hub.ID, ids[1]})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ownerID, hub.ID))

	var edges int64
	require.NoError(t, db.Model(&modelArticle.ArticleLink{}).Count(&edges).Error)
	assert.Zero(t, edges)

	order, err := sequences.GetSequence(ctx, journalID)
	require.NoError(t, err)
	assert.Equal(t, []uint{ids[0], ids[1]}, order)

	n, err := svc.Neighbors(ctx, ownerID, ids[1])
	require.NoError(t, err)
	require.NotNil(t, n.Prev)
	assert.Equal(t, ids[0], *n.Prev)
	assert.Nil(t, n.Next)

	_, err = svc.Get(ctx, ownerID, hub.ID)
	assert.True(t, response.IsCode(err, response.NotFound))
}

func TestLinksAndBacklinks(t *testing.T) {
	db, svc, _ := setupService(t)
	ctx := context.Background()
	journalID := testutils.CreateTestJournal(db, ownerID).ID
	target := testutils.CreateTestArticle(db, journalID, testutils.WithArticleTitle("Target"))

	source, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{
		Title:   "Source",
		Content: content.Document{Blocks: []content.Block{paragraph(anchor(target.ID, "go there"))}},
	})
	require.NoError(t, err)

	links, err := svc.Links(ctx, ownerID, source.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, target.ID, links[0].ArticleID)
	assert.Equal(t, "Target", links[0].Title)
	assert.Equal(t, "go there", links[0].Anchor)

	backlinks, err := svc.Backlinks(ctx, ownerID, target.ID)
	require.NoError(t, err)
	require.Len(t, backlinks, 1)
	assert.Equal(t, source.ID, backlinks[0].ArticleID)
	assert.Equal(t, "source", backlinks[0].Slug)

	_, err = svc.Links(ctx, ownerID+1, source.ID)
	assert.True(t, response.IsCode(err, response.NotFound))
}

func TestSearch(t *testing.T) {
	db, svc, _ := setupService(t)
	ctx := context.Background()
	journalID := testutils.CreateTestJournal(db, ownerID).ID

	_, err := svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{
		Title:   "Kernel tuning",
		Content: content.Document{Blocks: []content.Block{paragraph("100% <i>reliable</i>")}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ownerID, journalID, dto.CreateArticleRequest{Title: "Unrelated"})
	require.NoError(t, err)

	results, err := svc.Search(ctx, ownerID, journalID, "KERNEL")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Kernel tuning", results[0].Title)

	results, err = svc.Search(ctx, ownerID, journalID, "0%")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = svc.Search(ctx, ownerID, journalID, "%")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = svc.Search(ctx, ownerID, journalID, "reliable")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
