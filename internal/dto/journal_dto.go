package dto

// CreateJournalRequest 创建日志请求
// Slug 为空时由标题生成并自动避让重名
type CreateJournalRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Slug        *string `json:"slug" binding:"omitempty,max=255"`
	Description string  `json:"description"`
}

// UpdateJournalRequest 更新日志请求，未提供的字段保持不变
type UpdateJournalRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug" binding:"omitempty,max=255"`
	Description *string `json:"description"`
}

// SequenceRequest 替换阅读顺序请求
type SequenceRequest struct {
	ArticleIDs []uint `json:"article_ids"`
}

// SequenceResponse 阅读顺序
type SequenceResponse struct {
	ArticleIDs []uint `json:"article_ids"`
}
