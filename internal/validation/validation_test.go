package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/journal-wiki/internal/testutils"
	"terminal-terrace/journal-wiki/pkg/response"
)

func TestDuplicateIDs(t *testing.T) {
	assert.NoError(t, DuplicateIDs(nil))
	assert.NoError(t, DuplicateIDs([]uint{1, 2, 3}))

	err := DuplicateIDs([]uint{1, 2, 1})
	require.Error(t, err)
	assert.True(t, response.IsCode(err, response.InvalidParameter))
	assert.Equal(t, MsgDuplicateIDs, err.Error())
}

func TestJournalExists(t *testing.T) {
	db := testutils.SetupTestDB(t)
	j := testutils.CreateTestJournal(db, 1)

	assert.NoError(t, JournalExists(db, j.ID))

	err := JournalExists(db, j.ID+100)
	assert.True(t, response.IsCode(err, response.NotFound))
}

func TestJournalMembership(t *testing.T) {
	db := testutils.SetupTestDB(t)
	j1 := testutils.CreateTestJournal(db, 1)
	j2 := testutils.CreateTestJournal(db, 1)
	own := testutils.CreateTestArticles(db, j1.ID, 2)
	other := testutils.CreateTestArticle(db, j2.ID)

	assert.NoError(t, JournalMembership(db, j1.ID, nil))
	assert.NoError(t, JournalMembership(db, j1.ID, own))

	err := JournalMembership(db, j1.ID, append(own, other.ID))
	assert.True(t, response.IsCode(err, response.InvalidParameter))
	assert.Equal(t, MsgForeignArticles, err.Error())

	err = JournalMembership(db, j1.ID, []uint{own[0], 9999})
	assert.True(t, response.IsCode(err, response.InvalidParameter))
}

func TestArticleSlugAvailable(t *testing.T) {
	db := testutils.SetupTestDB(t)
	j1 := testutils.CreateTestJournal(db, 1)
	j2 := testutils.CreateTestJournal(db, 1)
	a := testutils.CreateTestArticle(db, j1.ID, testutils.WithArticleSlug("intro"))

	err := ArticleSlugAvailable(db, j1.ID, "intro", 0)
	assert.True(t, response.IsCode(err, response.InvalidParameter))

	// 更新自身时不冲突
	assert.NoError(t, ArticleSlugAvailable(db, j1.ID, "intro", a.ID))
	// slug 按日志隔离
	assert.NoError(t, ArticleSlugAvailable(db, j2.ID, "intro", 0))
}

func TestJournalSlugAvailable(t *testing.T) {
	db := testutils.SetupTestDB(t)
	j := testutils.CreateTestJournal(db, 1, testutils.WithJournalSlug("diary"))

	err := JournalSlugAvailable(db, "diary", 0)
	assert.True(t, response.IsCode(err, response.InvalidParameter))
	assert.NoError(t, JournalSlugAvailable(db, "diary", j.ID))
	assert.NoError(t, JournalSlugAvailable(db, "notes", 0))
}

func TestSlugFormat(t *testing.T) {
	assert.NoError(t, SlugFormat("my-notes-2"))
	assert.True(t, response.IsCode(SlugFormat("My Notes"), response.InvalidParameter))
}

func TestOwnership(t *testing.T) {
	db := testutils.SetupTestDB(t)
	j := testutils.CreateTestJournal(db, 7)
	a := testutils.CreateTestArticle(db, j.ID)

	assert.NoError(t, JournalOwnedBy(db, j.ID, 7))
	assert.True(t, response.IsCode(JournalOwnedBy(db, j.ID, 8), response.NotFound))
	assert.True(t, response.IsCode(JournalOwnedBy(db, j.ID+1, 7), response.NotFound))

	journalID, err := ArticleOwnedBy(db, a.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, j.ID, journalID)

	_, err = ArticleOwnedBy(db, a.ID, 8)
	assert.True(t, response.IsCode(err, response.NotFound))
	_, err = ArticleOwnedBy(db, a.ID+1, 7)
	assert.True(t, response.IsCode(err, response.NotFound))
}
