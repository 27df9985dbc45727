package journal

import "github.com/gin-gonic/gin"

// SetupJournalRoutes 设置日志相关路由，r 需已挂载认证中间件
func SetupJournalRoutes(r *gin.RouterGroup, journalHandler *JournalHandler) {
	journals := r.Group("/journals")
	{
		journals.GET("", journalHandler.ListJournals)         // 日志列表
		journals.POST("", journalHandler.CreateJournal)       // 创建日志
		journals.GET("/:id", journalHandler.GetJournal)       // 日志详情
		journals.PATCH("/:id", journalHandler.UpdateJournal)  // 更新日志
		journals.DELETE("/:id", journalHandler.DeleteJournal) // 删除日志（级联删除文章）

		journals.GET("/:id/sequence", journalHandler.GetSequence)      // 获取阅读顺序
		journals.PUT("/:id/sequence", journalHandler.ReplaceSequence)  // 替换阅读顺序
		journals.POST("/:id/sequence", journalHandler.ReplaceSequence) // 兼容旧客户端
	}
}
