package article

import "github.com/gin-gonic/gin"

// SetupArticleRoutes 设置文章相关路由，r 需已挂载认证中间件
func SetupArticleRoutes(r *gin.RouterGroup, articleHandler *ArticleHandler) {
	// 日志下的文章
	journals := r.Group("/journals")
	{
		journals.GET("/:id/articles", articleHandler.ListArticles)          // 文章列表
		journals.GET("/:id/articles/search", articleHandler.SearchArticles) // 搜索文章
		journals.POST("/:id/articles", articleHandler.CreateArticle)        // 创建文章
	}

	articles := r.Group("/articles")
	{
		articles.GET("/:id", articleHandler.GetArticle)             // 文章详情
		articles.PATCH("/:id", articleHandler.UpdateArticle)        // 更新文章
		articles.PUT("/:id", articleHandler.UpdateArticle)          // 同 PATCH
		articles.DELETE("/:id", articleHandler.DeleteArticle)       // 删除文章
		articles.GET("/:id/neighbors", articleHandler.GetNeighbors) // 上一篇/下一篇
		articles.GET("/:id/links", articleHandler.GetLinks)         // 出链
		articles.GET("/:id/backlinks", articleHandler.GetBacklinks) // 反链
	}
}
