package journal

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"terminal-terrace/journal-wiki/internal/dto"
	"terminal-terrace/journal-wiki/internal/middleware"
	"terminal-terrace/journal-wiki/pkg/response"
)

type JournalHandler struct {
	journalService *JournalService
}

func NewJournalHandler(journalService *JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// parseJournalID 解析路径中的日志ID
func parseJournalID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("无效的日志ID"),
		))
		return 0, false
	}
	return uint(id), true
}

// ListJournals 获取当前用户的日志列表
// GET /api/journals
func (h *JournalHandler) ListJournals(c *gin.Context) {
	journals, err := h.journalService.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, journals)
}

// CreateJournal 创建日志
// POST /api/journals
func (h *JournalHandler) CreateJournal(c *gin.Context) {
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	j, err := h.journalService.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, j)
}

// GetJournal 获取日志详情
// GET /api/journals/:id
func (h *JournalHandler) GetJournal(c *gin.Context) {
	id, ok := parseJournalID(c)
	if !ok {
		return
	}

	j, err := h.journalService.Get(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, j)
}

// UpdateJournal 更新日志
// PATCH /api/journals/:id
func (h *JournalHandler) UpdateJournal(c *gin.Context) {
	id, ok := parseJournalID(c)
	if !ok {
		return
	}

	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	j, err := h.journalService.Update(c.Request.Context(), middleware.CurrentUserID(c), id, req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, j)
}

// DeleteJournal 删除日志及其全部文章
// DELETE /api/journals/:id
func (h *JournalHandler) DeleteJournal(c *gin.Context) {
	id, ok := parseJournalID(c)
	if !ok {
		return
	}

	if err := h.journalService.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		dto.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSequence 获取阅读顺序
// GET /api/journals/:id/sequence
func (h *JournalHandler) GetSequence(c *gin.Context) {
	id, ok := parseJournalID(c)
	if !ok {
		return
	}

	ids, err := h.journalService.GetSequence(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, dto.SequenceResponse{ArticleIDs: ids})
}

// ReplaceSequence 替换阅读顺序
// PUT /api/journals/:id/sequence
func (h *JournalHandler) ReplaceSequence(c *gin.Context) {
	id, ok := parseJournalID(c)
	if !ok {
		return
	}

	var req dto.SequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	if req.ArticleIDs == nil {
		req.ArticleIDs = []uint{}
	}

	ids, err := h.journalService.ReplaceSequence(c.Request.Context(), middleware.CurrentUserID(c), id, req.ArticleIDs)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, dto.SequenceResponse{ArticleIDs: ids})
}
