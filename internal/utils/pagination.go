package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageFromQuery reads the 1-based "page" query parameter, defaulting to 1.
func PageFromQuery(c *gin.Context) int {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	return NormalizePage(page)
}

func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ParseID parses a numeric path parameter.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
