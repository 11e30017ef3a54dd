package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AbdulBaasithere/socializeNotion/config"
	"github.com/AbdulBaasithere/socializeNotion/internal/infra/cache"
	"github.com/AbdulBaasithere/socializeNotion/internal/utils"
)

// JWTAuthMiddleware validates the bearer token, rejects blacklisted ones
// and stores user_id/username on the context. If Redis is down the
// blacklist check degrades open rather than failing every request.
func JWTAuthMiddleware(cfg *config.Config, rdb *cache.RedisCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, http.StatusUnauthorized, "missing token")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, http.StatusUnauthorized, "invalid token format")
			return
		}
		tokenString := parts[1]

		if rdb != nil {
			blacklisted, err := utils.IsTokenBlacklisted(c, rdb.Client(), tokenString)
			if err != nil {
				zap.L().Warn("blacklist check failed, continuing",
					zap.Error(err), zap.String("token", utils.GetTokenHash(tokenString)))
			} else if blacklisted {
				utils.Error(c, http.StatusUnauthorized, "token revoked")
				return
			}
		}

		token, err := utils.ValidateToken(cfg, tokenString)
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, "invalid token")
			return
		}

		claims, err := utils.ExtractClaims(token)
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, "invalid token claims")
			return
		}

		uidStr, _ := claims["user_id"].(string)
		uid, err := strconv.ParseUint(uidStr, 10, 32)
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, "invalid token subject")
			return
		}

		c.Set("user_id", uint(uid))
		if username, ok := claims["username"].(string); ok {
			c.Set("username", username)
		}

		c.Next()
	}
}
