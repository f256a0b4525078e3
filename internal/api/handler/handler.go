package handler

import (
    "errors"
    "regexp"

    "github.com/gin-gonic/gin"
    "github.com/gin-gonic/gin/binding"
    "github.com/go-playground/validator/v10"

    "github.com/d60-Lab/social-feed/internal/service"
    "github.com/d60-Lab/social-feed/pkg/response"
)

// Handler 聚合全部 API handler 依赖
type Handler struct {
    accountSvc service.AccountService
    relService service.RelationshipService
    postSvc    service.PostService
    feedSvc    service.FeedService
    notifSvc   service.NotificationService
}

func New(
    accountSvc service.AccountService,
    relService service.RelationshipService,
    postSvc service.PostService,
    feedSvc service.FeedService,
    notifSvc service.NotificationService,
) *Handler {
    return &Handler{
        accountSvc: accountSvc,
        relService: relService,
        postSvc:    postSvc,
        feedSvc:    feedSvc,
        notifSvc:   notifSvc,
    }
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

// RegisterValidations 挂载自定义校验规则（binding:"username"）
func RegisterValidations() {
    if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
        _ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
            return usernameRe.MatchString(fl.Field().String())
        })
    }
}

// writeServiceError 业务错误到 HTTP 状态码的统一映射
func writeServiceError(c *gin.Context, err error) {
    switch {
    case errors.Is(err, service.ErrFollowSelf),
        errors.Is(err, service.ErrNotLiked),
        errors.Is(err, service.ErrUsernameTaken),
        errors.Is(err, service.ErrEmailTaken),
        errors.Is(err, service.ErrInvalidCursor):
        response.BadRequest(c, err.Error())
    case errors.Is(err, service.ErrUserNotFound),
        errors.Is(err, service.ErrPostNotFound),
        errors.Is(err, service.ErrCommentNotFound),
        errors.Is(err, service.ErrNotificationNotFound):
        response.NotFound(c, err.Error())
    case errors.Is(err, service.ErrInvalidCredentials):
        response.Unauthorized(c, err.Error())
    case errors.Is(err, service.ErrForbidden):
        response.Forbidden(c, err.Error())
    default:
        response.InternalError(c, err)
    }
}
