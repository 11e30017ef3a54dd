package utils

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/AbdulBaasithere/socializeNotion/config"
)

func GenerateToken(cfg *config.Config, userID uint, username string) (string, error) {
	// jti feeds the logout blacklist.
	jti := time.Now().UnixNano() + rand.Int63()

	claims := jwt.MapClaims{
		"user_id":  strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"jti":      jti,
		"exp":      time.Now().Add(cfg.JWTExpirationTime).Unix(),
		"iat":      time.Now().Unix(),
		"iss":      cfg.JWTIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecretKey))
}

func ValidateToken(cfg *config.Config, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWTSecretKey), nil
	})
}

func ExtractClaims(token *jwt.Token) (jwt.MapClaims, error) {
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// IsTokenBlacklisted checks the logout blacklist. The token is parsed
// unverified here; signature checking happens separately in ValidateToken.
func IsTokenBlacklisted(ctx context.Context, redisClient *redis.Client, tokenString string) (bool, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return false, nil
	}

	claims := jwt.MapClaims{}
	_, _, _ = jwt.NewParser().ParseUnverified(tokenString, claims)

	jtiStr, ok := jtiFromClaims(claims)
	if !ok {
		return false, nil
	}

	_, err := redisClient.Get(ctx, "blacklist:"+jtiStr).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis error checking blacklist: %w", err)
	}
	return true, nil
}

func AddTokenToBlacklist(ctx context.Context, redisClient *redis.Client, tokenString string, expiration time.Duration) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	if jtiStr, ok := jtiFromClaims(claims); ok {
		return redisClient.Set(ctx, "blacklist:"+jtiStr, "1", expiration).Err()
	}
	return nil
}

func jtiFromClaims(claims jwt.MapClaims) (string, bool) {
	switch jti := claims["jti"].(type) {
	case string:
		return jti, true
	case float64:
		return strconv.FormatInt(int64(jti), 10), true
	default:
		return "", false
	}
}

func GetTokenHash(token string) string {
	if token == "" {
		return "empty"
	}
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", hash[:8])
}
