package api

import (
    sentrygin "github.com/getsentry/sentry-go/gin"
    "github.com/gin-contrib/gzip"
    "github.com/gin-gonic/gin"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
    "golang.org/x/time/rate"

    "github.com/d60-Lab/social-feed/config"
    _ "github.com/d60-Lab/social-feed/docs"
    "github.com/d60-Lab/social-feed/internal/api/handler"
    "github.com/d60-Lab/social-feed/internal/api/middleware"
)

// NewRouter 组装全部路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
    if cfg.Server.Mode == "release" {
        gin.SetMode(gin.ReleaseMode)
    }
    handler.RegisterValidations()

    r := gin.New()
    r.Use(gin.Recovery())
    if cfg.Sentry.DSN != "" {
        r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
    }
    r.Use(gzip.Gzip(gzip.DefaultCompression))
    r.Use(otelgin.Middleware("social-feed"))
    r.Use(middleware.RateLimit(rate.Limit(100), 200))

    r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

    v1 := r.Group("/api/v1")
    {
        v1.POST("/auth/register", h.Register)
        v1.POST("/auth/login", h.Login)
        v1.GET("/users/:user_id", h.GetProfile)
        v1.GET("/users/:user_id/following", h.ListFollowing)
        v1.GET("/users/:user_id/followers", h.ListFollowers)
        v1.GET("/users/:user_id/posts", h.ListUserPosts)
        v1.GET("/posts/:post_id", h.GetPost)
        v1.GET("/posts/:post_id/comments", h.ListComments)
    }

    authed := v1.Group("", middleware.JWTAuth(cfg.JWT.Secret))
    {
        authed.GET("/me", h.Me)
        authed.DELETE("/me", h.DeleteMe)
        authed.POST("/users/:user_id/follow", h.Follow)
        authed.POST("/users/:user_id/unfollow", h.Unfollow)
        authed.POST("/posts", h.CreatePost)
        authed.DELETE("/posts/:post_id", h.DeletePost)
        authed.POST("/posts/:post_id/comments", h.CreateComment)
        authed.DELETE("/comments/:comment_id", h.DeleteComment)
        authed.POST("/posts/:post_id/like", h.LikePost)
        authed.POST("/posts/:post_id/unlike", h.UnlikePost)
        authed.GET("/feed", h.Feed)
        authed.GET("/notifications", h.ListNotifications)
        authed.GET("/notifications/unread_count", h.UnreadCount)
        authed.POST("/notifications/:notification_id/read", h.MarkNotificationRead)
    }

    return r
}
