package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// GetUserID reads the authenticated user id the JWT middleware stored on
// the context.
func GetUserID(c *gin.Context) (uint, error) {
	uidRaw, exists := c.Get("user_id")
	if !exists {
		return 0, errors.New("not logged in")
	}

	uid, ok := uidRaw.(uint)
	if !ok {
		return 0, errors.New("bad user id type in context")
	}

	return uid, nil
}
