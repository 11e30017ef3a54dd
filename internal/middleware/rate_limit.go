package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AbdulBaasithere/socializeNotion/internal/infra/cache"
	"github.com/AbdulBaasithere/socializeNotion/internal/utils"
)

// RateLimitMiddleware caps the number of calls per caller per action
// within the window. Authenticated requests are keyed by user, anonymous
// ones by client IP. Redis failure or absence lets the request through.
func RateLimitMiddleware(rdb *cache.RedisCache, action string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		caller := c.ClientIP()
		if userID, err := utils.GetUserID(c); err == nil {
			caller = fmt.Sprintf("%d", userID)
		}
		key := fmt.Sprintf("rate:limit:%s:%s", caller, action)

		allowed, err := rdb.AllowRequest(c, key, limit, window)
		if err != nil {
			zap.L().Warn("rate limit check failed", zap.Error(err), zap.String("key", key))
			c.Next()
			return
		}

		if !allowed {
			utils.Error(c, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}

		c.Next()
	}
}
