package route

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/journal-wiki/internal/article"
	"terminal-terrace/journal-wiki/internal/journal"
	"terminal-terrace/journal-wiki/internal/link"
	"terminal-terrace/journal-wiki/internal/sequence"
	"terminal-terrace/journal-wiki/internal/testutils"
	"terminal-terrace/journal-wiki/pkg/authsdk"
	"terminal-terrace/journal-wiki/pkg/response"
)

const testSecret = "route-test-secret"

type envelope struct {
	Code    response.ResponseCode `json:"code"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutils.SetupTestDB(t)
	client, _ := testutils.SetupTestRedis(t)
	links := link.NewSynchronizer(nil)
	sequences := sequence.NewService(db, sequence.NewNeighborCache(client, time.Minute, nil), nil)

	return SetupRouter(Dependencies{
		DB:        db,
		Journals:  journal.NewJournalService(db, links, sequences, nil),
		Articles:  article.NewArticleService(db, links, sequences, nil),
		JWTSecret: testSecret,
	})
}

func newClient(t *testing.T, router *gin.Engine, userID uint) *apiClient {
	t.Helper()
	token, err := authsdk.GenerateToken(authsdk.UserContext{UserID: userID}, testSecret, time.Hour)
	require.NoError(t, err)
	return &apiClient{t: t, router: router, token: token}
}

func (c *apiClient) do(method, path string, body any) (int, envelope) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (c *apiClient) decode(env envelope, out any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(env.Data, out))
}

type idResp struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
}

func paragraph(html string) map[string]any {
	return map[string]any{"blocks": []any{
		map[string]any{"type": "paragraph", "data": map[string]any{"text": html}},
	}}
}

func TestHealthAndMetrics(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutils.SetupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	r := gin.New()
	r.GET("/health", healthHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, response.Fail, env.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, string(env.Data))
}

func TestRequiresAuth(t *testing.T) {
	r := setupRouter(t)
	c := &apiClient{t: t, router: r}

	status, env := c.do(http.MethodGet, "/api/journals", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, response.Unauthorized, env.Code)
}

func TestJournalLifecycle(t *testing.T) {
	r := setupRouter(t)
	c := newClient(t, r, 1)

	status, env := c.do(http.MethodPost, "/api/journals", map[string]any{"title": "Field Notes"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var j idResp
	c.decode(env, &j)
	assert.Equal(t, "field-notes", j.Slug)

	// 同名标题自动追加后缀
	status, env = c.do(http.MethodPost, "/api/journals", map[string]any{"title": "Field notes!"})
	require.Equal(t, http.StatusCreated, status)
	var j2 idResp
	c.decode(env, &j2)
	assert.Equal(t, "field-notes-2", j2.Slug)

	// 显式 slug 冲突报错
	status, env = c.do(http.MethodPost, "/api/journals", map[string]any{"title": "x", "slug": "field-notes"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, response.InvalidParameter, env.Code)

	status, _ = c.do(http.MethodPost, "/api/journals", map[string]any{"slug": "no-title"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = c.do(http.MethodPatch, fmt.Sprintf("/api/journals/%d", j.ID), map[string]any{"title": "Travel Log"})
	require.Equal(t, http.StatusOK, status)
	c.decode(env, &j)
	assert.Equal(t, "travel-log", j.Slug)

	status, env = c.do(http.MethodGet, "/api/journals", nil)
	require.Equal(t, http.StatusOK, status)
	var list []idResp
	c.decode(env, &list)
	assert.Len(t, list, 2)

	// 其他用户看不到
	other := newClient(t, r, 2)
	status, env = other.do(http.MethodGet, fmt.Sprintf("/api/journals/%d", j.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.NotFound, env.Code)

	status, _ = c.do(http.MethodGet, "/api/journals/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/journals/%d", j.ID), nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = c.do(http.MethodGet, fmt.Sprintf("/api/journals/%d", j.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestArticlesLinksAndSequence(t *testing.T) {
	r := setupRouter(t)
	c := newClient(t, r, 1)

	_, env := c.do(http.MethodPost, "/api/journals", map[string]any{"title": "Wiki"})
	var j idResp
	c.decode(env, &j)

	create := func(title string, doc map[string]any) uint {
		status, env := c.do(http.MethodPost, fmt.Sprintf("/api/journals/%d/articles", j.ID),
			map[string]any{"title": title, "content": doc})
		require.Equal(t, http.StatusCreated, status, env.Message)
		var a idResp
		c.decode(env, &a)
		return a.ID
	}

	a := create("Alpha", paragraph("start"))
	b := create("Beta", paragraph(fmt.Sprintf(`see <a data-article-id="%d">the alpha</a> and <a data-article-id="999999">ghost</a>`, a)))
	cID := create("Gamma", map[string]any{"blocks": []any{
		map[string]any{"type": "index", "data": map[string]any{"entries": []any{
			map[string]any{"article_id": a, "title": "Alpha"},
			map[string]any{"article_id": b, "title": ""},
		}}},
	}})

	// 出链与反链
	status, env := c.do(http.MethodGet, fmt.Sprintf("/api/articles/%d/links", b), nil)
	require.Equal(t, http.StatusOK, status)
	var links []struct {
		ArticleID uint   `json:"article_id"`
		Title     string `json:"title"`
		Anchor    string `json:"anchor"`
	}
	c.decode(env, &links)
	require.Len(t, links, 1)
	assert.Equal(t, a, links[0].ArticleID)
	assert.Equal(t, "the alpha", links[0].Anchor)

	_, env = c.do(http.MethodGet, fmt.Sprintf("/api/articles/%d/backlinks", a), nil)
	c.decode(env, &links)
	require.Len(t, links, 2)
	assert.Equal(t, b, links[0].ArticleID)
	assert.Equal(t, cID, links[1].ArticleID)

	_, env = c.do(http.MethodGet, fmt.Sprintf("/api/articles/%d", cID), nil)
	var gamma struct {
		IsIndex      bool `json:"is_index"`
		IndexEntries []struct {
			ArticleID uint `json:"article_id"`
		} `json:"index_entries"`
	}
	c.decode(env, &gamma)
	assert.True(t, gamma.IsIndex)
	assert.Len(t, gamma.IndexEntries, 2)

	// 更新正文后旧链接被替换
	status, _ = c.do(http.MethodPatch, fmt.Sprintf("/api/articles/%d", b), map[string]any{"content": paragraph("no links")})
	require.Equal(t, http.StatusOK, status)
	_, env = c.do(http.MethodGet, fmt.Sprintf("/api/articles/%d/links", b), nil)
	c.decode(env, &links)
	assert.Empty(t, links)

	// 阅读顺序
	seqPath := fmt.Sprintf("/api/journals/%d/sequence", j.ID)
	status, env = c.do(http.MethodPut, seqPath, map[string]any{"article_ids": []uint{b, a, cID}})
	require.Equal(t, http.StatusOK, status, env.Message)

	var n struct {
		Prev *uint `json:"prev_article_id"`
		Next *uint `json:"next_article_id"`
	}
	_, env = c.do(http.MethodGet, fmt.Sprintf("/api/articles/%d/neighbors", a), nil)
	c.decode(env, &n)
	require.NotNil(t, n.Prev)
	require.NotNil(t, n.Next)
	assert.Equal(t, b, *n.Prev)
	assert.Equal(t, cID, *n.Next)

	status, env = c.do(http.MethodPut, seqPath, map[string]any{"article_ids": []uint{a, a}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Sequence contains duplicate article ids", env.Message)

	// 删除中间的文章后位置被压缩
	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/articles/%d", a), nil)
	require.Equal(t, http.StatusNoContent, status)

	_, env = c.do(http.MethodGet, seqPath, nil)
	var seq struct {
		ArticleIDs []uint `json:"article_ids"`
	}
	c.decode(env, &seq)
	assert.Equal(t, []uint{b, cID}, seq.ArticleIDs)

	_, env = c.do(http.MethodGet, fmt.Sprintf("/api/articles/%d/neighbors", b), nil)
	c.decode(env, &n)
	assert.Nil(t, n.Prev)
	require.NotNil(t, n.Next)
	assert.Equal(t, cID, *n.Next)

	_, env = c.do(http.MethodGet, fmt.Sprintf("/api/articles/%d/links", cID), nil)
	c.decode(env, &links)
	require.Len(t, links, 1)
	assert.Equal(t, b, links[0].ArticleID)
	assert.Equal(t, fmt.Sprintf("Article #%d", b), links[0].Anchor)
}

func TestSearchArticles(t *testing.T) {
	r := setupRouter(t)
	c := newClient(t, r, 1)

	_, env := c.do(http.MethodPost, "/api/journals", map[string]any{"title": "Search"})
	var j idResp
	c.decode(env, &j)

	for _, title := range []string{"Gardening basics", "Cooking", "100% Rye"} {
		status, _ := c.do(http.MethodPost, fmt.Sprintf("/api/journals/%d/articles", j.ID),
			map[string]any{"title": title, "content": paragraph("about " + title + " and <b>soil</b>")})
		require.Equal(t, http.StatusCreated, status)
	}

	search := func(q string) []string {
		_, env := c.do(http.MethodGet, fmt.Sprintf("/api/journals/%d/articles/search?q=%s", j.ID, q), nil)
		var items []struct {
			Title string `json:"title"`
		}
		c.decode(env, &items)
		titles := make([]string, 0, len(items))
		for _, it := range items {
			titles = append(titles, it.Title)
		}
		return titles
	}

	assert.Equal(t, []string{"Gardening basics"}, search("GARDEN"))
	assert.Len(t, search("soil"), 3)
	assert.Equal(t, []string{"100% Rye"}, search("100%25"))
	assert.Empty(t, search("%25%25"))
	assert.Equal(t, []string{"100% Rye", "Cooking", "Gardening basics"}, search(""))
}
