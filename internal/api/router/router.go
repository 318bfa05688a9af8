package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-review/config"
	"course-review/internal/api/handler"
	"course-review/internal/api/middleware"
	"course-review/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// blacklist 与 limiter 在未启用 Redis 时为 nil
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	blacklist middleware.TokenChecker,
	limiter middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	rateLimit := middleware.RateLimit(limiter, cfg.Auth.RateLimit, cfg.Auth.RateWindow)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，按 IP 限流）
		auth := v1.Group("/auth")
		auth.Use(rateLimit)
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/forgot-password", h.Auth.ForgotPassword)
			auth.POST("/verify", h.Auth.Verify)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 个人资料
			authorized.GET("/profile", h.Profile.GetProfile)
			authorized.PUT("/profile", h.Profile.UpdateProfile)

			// 教师
			teachers := authorized.Group("/teachers")
			{
				teachers.GET("", h.Catalog.ListTeachers)
				teachers.GET("/:id", h.Catalog.GetTeacher)
				teachers.POST("", middleware.AdminOnly(), h.Catalog.CreateTeacher)
				teachers.PUT("/:id/disciplines", middleware.AdminOnly(), h.Catalog.SetTeacherDisciplines)
				teachers.DELETE("/:id", middleware.AdminOnly(), h.Catalog.DeleteTeacher)
			}

			// 课程
			disciplines := authorized.Group("/disciplines")
			{
				disciplines.GET("", h.Catalog.ListDisciplines)
				disciplines.GET("/:id", h.Catalog.GetDiscipline)
				disciplines.POST("", middleware.AdminOnly(), h.Catalog.CreateDiscipline)
				disciplines.DELETE("/:id", middleware.AdminOnly(), h.Catalog.DeleteDiscipline)
			}

			// 评价（删除权限在 Service 层判定：作者本人或管理员）
			reviews := authorized.Group("/reviews")
			{
				reviews.GET("/:kind", h.Review.Search)
				reviews.POST("/teachers", h.Review.SubmitTeacherReview)
				reviews.POST("/disciplines", h.Review.SubmitDisciplineReview)
				reviews.DELETE("/:kind/:id", h.Review.Delete)
			}

			// 排行榜
			authorized.GET("/rankings", h.Ranking.TopRanked)

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/rankings", middleware.AdminOnly(), h.Export.ExportRankings)
			}
		}
	}

	return r
}
