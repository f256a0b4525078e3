package middleware

import (
    "fmt"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"

    "github.com/d60-Lab/social-feed/pkg/response"
)

// ContextUserID 认证中间件写入 gin context 的 key
const ContextUserID = "user_id"

// JWTAuth 校验 Bearer token，把 sub 写入 context
func JWTAuth(secret string) gin.HandlerFunc {
    key := []byte(secret)
    return func(c *gin.Context) {
        h := c.GetHeader("Authorization")
        if !strings.HasPrefix(h, "Bearer ") {
            response.Unauthorized(c, "missing bearer token")
            c.Abort()
            return
        }
        claims := &jwt.RegisteredClaims{}
        token, err := jwt.ParseWithClaims(strings.TrimPrefix(h, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
            if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
            }
            return key, nil
        })
        if err != nil || !token.Valid || claims.Subject == "" {
            response.Unauthorized(c, "invalid token")
            c.Abort()
            return
        }
        c.Set(ContextUserID, claims.Subject)
        c.Next()
    }
}

// CurrentUserID 取当前登录用户；只在 JWTAuth 之后的 handler 里用
func CurrentUserID(c *gin.Context) string {
    return c.GetString(ContextUserID)
}
