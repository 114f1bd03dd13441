package app

import (
	"tla_backend/docs"
	"tla_backend/internal/config"
	"tla_backend/internal/middleware"

	"tla_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerContentRoutes(authGroup, c)
		a.registerGameRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.user.Profile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)
	rg.GET("/leaderboard", c.user.Leaderboard)
	rg.GET("/achievements", c.achievement.List)
}

func (a *App) registerContentRoutes(rg *gin.RouterGroup, c *controllers) {
	// 学科
	rg.GET("/subjects", c.subject.List)
	rg.GET("/subjects/:id", c.subject.Get)
	rg.POST("/subjects", c.subject.Create)
	rg.PUT("/subjects/:id", c.subject.Update)
	rg.DELETE("/subjects/:id", c.subject.Delete)

	// 词条
	rg.GET("/subjects/:id/vocabulary", c.vocabulary.ListBySubject)
	rg.GET("/vocabulary/search", c.vocabulary.Search)
	rg.GET("/vocabulary/:id", c.vocabulary.Get)
	rg.POST("/vocabulary", c.vocabulary.Create)
	rg.PUT("/vocabulary/:id", c.vocabulary.Update)
	rg.DELETE("/vocabulary/:id", c.vocabulary.Delete)
}

func (a *App) registerGameRoutes(rg *gin.RouterGroup, c *controllers) {
	game := rg.Group("/game")
	{
		game.GET("/sessions", c.game.ListSessions)
		game.POST("/sessions/start", c.game.StartSession)
		game.GET("/sessions/:sessionId", c.game.GetSession)
		game.POST("/sessions/:sessionId/challenges/:challengeId/attempt", c.game.SubmitAttempt)
		game.POST("/sessions/:sessionId/complete", c.game.CompleteSession)
	}
}
