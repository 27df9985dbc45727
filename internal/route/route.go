package route

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"terminal-terrace/journal-wiki/internal/article"
	"terminal-terrace/journal-wiki/internal/dto"
	"terminal-terrace/journal-wiki/internal/journal"
	"terminal-terrace/journal-wiki/internal/metrics"
	"terminal-terrace/journal-wiki/internal/middleware"
)

// Dependencies 路由依赖
type Dependencies struct {
	DB          *gorm.DB
	Journals    *journal.JournalService
	Articles    *article.ArticleService
	JWTSecret   string
	FrontendURL string
	Logger      *slog.Logger
}

func initRoute(r *gin.Engine, deps Dependencies) {
	// 健康检查与监控指标（无需认证）
	r.GET("/health", healthHandler(deps.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 业务接口统一需要认证
	api := r.Group("/api")
	api.Use(middleware.JWTAuth(deps.JWTSecret))

	journal.SetupJournalRoutes(api, journal.NewJournalHandler(deps.Journals))
	article.SetupArticleRoutes(api, article.NewArticleHandler(deps.Articles))
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(metrics.GinMiddleware())

	origin := deps.FrontendURL
	if origin == "" {
		origin = "http://localhost:5173" // 默认值
	}

	// 设置跨域请求
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	initRoute(r, deps)

	return r
}

// healthHandler 存活检查，数据库不可用时返回 503
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				dto.UnavailableResponse(c, gin.H{"status": "unavailable"})
				return
			}
		}
		dto.SuccessResponse(c, gin.H{"status": "ok"})
	}
}
