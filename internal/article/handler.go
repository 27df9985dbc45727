package article

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"terminal-terrace/journal-wiki/internal/dto"
	"terminal-terrace/journal-wiki/internal/middleware"
	"terminal-terrace/journal-wiki/pkg/response"
)

type ArticleHandler struct {
	articleService *ArticleService
}

func NewArticleHandler(articleService *ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// parseID 解析路径参数 id
func parseID(c *gin.Context, msg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage(msg),
		))
		return 0, false
	}
	return uint(id), true
}

// ListArticles 获取日志下的文章列表
// GET /api/journals/:id/articles
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	journalID, ok := parseID(c, "无效的日志ID")
	if !ok {
		return
	}

	articles, err := h.articleService.ListByJournal(c.Request.Context(), middleware.CurrentUserID(c), journalID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, articles)
}

// SearchArticles 日志内搜索文章（标题或正文子串，最多 20 条）
// GET /api/journals/:id/articles/search?q=
func (h *ArticleHandler) SearchArticles(c *gin.Context) {
	journalID, ok := parseID(c, "无效的日志ID")
	if !ok {
		return
	}

	items, err := h.articleService.Search(c.Request.Context(), middleware.CurrentUserID(c), journalID, c.Query("q"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, items)
}

// CreateArticle 创建文章
// POST /api/journals/:id/articles
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	journalID, ok := parseID(c, "无效的日志ID")
	if !ok {
		return
	}

	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	art, err := h.articleService.Create(c.Request.Context(), middleware.CurrentUserID(c), journalID, req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, art)
}

// GetArticle 获取文章详情
// GET /api/articles/:id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := parseID(c, "无效的文章ID")
	if !ok {
		return
	}

	art, err := h.articleService.Get(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, art)
}

// UpdateArticle 更新文章（重新提取文本并同步链接）
// PATCH /api/articles/:id
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c, "无效的文章ID")
	if !ok {
		return
	}

	var req dto.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	art, err := h.articleService.Update(c.Request.Context(), middleware.CurrentUserID(c), id, req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, art)
}

// DeleteArticle 删除文章
// DELETE /api/articles/:id
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c, "无效的文章ID")
	if !ok {
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		dto.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetNeighbors 获取阅读顺序中的上一篇与下一篇
// GET /api/articles/:id/neighbors
func (h *ArticleHandler) GetNeighbors(c *gin.Context) {
	id, ok := parseID(c, "无效的文章ID")
	if !ok {
		return
	}

	n, err := h.articleService.Neighbors(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, n)
}

// GetLinks 出链
// GET /api/articles/:id/links
func (h *ArticleHandler) GetLinks(c *gin.Context) {
	id, ok := parseID(c, "无效的文章ID")
	if !ok {
		return
	}

	items, err := h.articleService.Links(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, items)
}

// GetBacklinks 反链
// GET /api/articles/:id/backlinks
func (h *ArticleHandler) GetBacklinks(c *gin.Context) {
	id, ok := parseID(c, "无效的文章ID")
	if !ok {
		return
	}

	items, err := h.articleService.Backlinks(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, items)
}
