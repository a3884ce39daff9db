package router

import (
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/yatube/config"
	_ "github.com/d60-Lab/yatube/docs"
	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/api/middleware"
)

// Setup 组装 gin 引擎：全局中间件、静态资源、/api/v1 路由
func Setup(cfg *config.Config, h *handler.Handler, auth middleware.TokenResolver) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second}))
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.Logger())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if len(cfg.Server.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Cache", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media"})))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Server.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.Storage.Backend == "disk" && cfg.Storage.BaseURL != "" {
		r.Group(cfg.Storage.BaseURL, middleware.CacheControl(middleware.MediaMaxAge)).
			Static("/", cfg.Storage.Dir)
	}

	api := r.Group("/api/v1", middleware.CacheControl(middleware.NoStore), middleware.Authenticate(auth))
	{
		api.GET("/auth/login", h.LoginPage)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/signup", h.Signup)

		api.GET("/posts", h.Index)
		api.GET("/posts/:post_id", h.PostDetail)
		api.GET("/group/:slug", h.GroupPosts)
		api.GET("/profile/:username", h.Profile)
		api.GET("/profile/:username/following", h.ListFollowing)
		api.GET("/profile/:username/fans", h.ListFans)
	}

	authed := api.Group("", middleware.RequireLogin())
	{
		authed.GET("/follow", h.FollowIndex)
		authed.POST("/profile/:username/follow", h.Follow)
		authed.POST("/profile/:username/unfollow", h.Unfollow)

		authed.POST("/posts", h.CreatePost)
		authed.PUT("/posts/:post_id", h.EditPost)
		authed.DELETE("/posts/:post_id", h.DeletePost)
		authed.POST("/posts/:post_id/comment", h.AddComment)
	}

	admin := api.Group("", middleware.AdminOnly())
	{
		admin.POST("/groups", h.CreateGroup)
		admin.DELETE("/groups/:slug", h.DeleteGroup)
		admin.POST("/admin/cache/reset", h.ResetIndexCache)
	}

	return r, nil
}
