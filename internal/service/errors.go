package service

import "errors"

// 业务错误（handler 层映射到 HTTP 状态码）
var (
    ErrUserNotFound         = errors.New("user not found")
    ErrPostNotFound         = errors.New("post not found")
    ErrCommentNotFound      = errors.New("comment not found")
    ErrNotificationNotFound = errors.New("notification not found")
    ErrNotLiked             = errors.New("post not liked")
    ErrForbidden            = errors.New("operation not allowed")
    ErrUsernameTaken        = errors.New("username already taken")
    ErrEmailTaken           = errors.New("email already taken")
    ErrInvalidCredentials   = errors.New("invalid username or password")
    ErrInvalidCursor        = errors.New("invalid feed cursor")
)
