package middleware

import (
    "net/http"
    "sync"

    "github.com/gin-gonic/gin"
    "golang.org/x/time/rate"

    "github.com/d60-Lab/social-feed/pkg/response"
)

// RateLimit 按客户端 IP 限流
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
    var mu sync.Mutex
    limiters := make(map[string]*rate.Limiter)
    return func(c *gin.Context) {
        ip := c.ClientIP()
        mu.Lock()
        lim, ok := limiters[ip]
        if !ok {
            lim = rate.NewLimiter(rps, burst)
            limiters[ip] = lim
        }
        mu.Unlock()
        if !lim.Allow() {
            c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
                Code:    http.StatusTooManyRequests,
                Message: "too many requests",
            })
            return
        }
        c.Next()
    }
}
