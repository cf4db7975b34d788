package middlewares

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/ShepherdBook/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	limiters = make(map[string]*rate.Limiter)
	mu       sync.Mutex
)

func getLimiter(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	limiter, exists := limiters[key]
	if !exists {
		limiter = rate.NewLimiter(r, b)
		limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware keeps one token bucket per (name, keyFunc) pair so routes do not
// share budgets.
func RateLimitMiddleware(name string, r rate.Limit, b int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := name + ":" + keyFunc(c)
		limiter := getLimiter(key, r, b)

		if !limiter.Allow() {
			Logger(c).Warn("Rate limit exceeded", zap.String("limiter", name))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please slow down :("})
			return
		}

		c.Next()
	}
}

// UserKey buckets authenticated requests by app user and everything else by client IP.
func UserKey(c *gin.Context) string {
	if user, ok := c.Get("currentUser"); ok {
		if appUser, ok := user.(models.AppUser); ok {
			return "user:" + strconv.Itoa(appUser.App_User_ID)
		}
	}
	return "ip:" + c.ClientIP()
}
