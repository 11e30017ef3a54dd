package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": data})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"code": status, "message": message})
	c.Abort()
}

// Fail translates a core error into the HTTP envelope. Unclassified errors
// become a logged 500 without leaking internals.
func Fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		Error(c, status, "internal error")
		return
	}
	Error(c, status, err.Error())
}
