package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserNotesPatternCoversEveryKey(t *testing.T) {
	prefix := strings.TrimSuffix(UserNotesCachePattern(42), "*")
	for _, scope := range []string{"root", "folder:7"} {
		key := UserNotesCacheKey(42, scope)
		assert.True(t, strings.HasPrefix(key, prefix), "pattern must match %q", key)
	}

	// a different user's keys must not match
	assert.False(t, strings.HasPrefix(UserNotesCacheKey(421, "root"), prefix+":"))
}

func TestNoteCacheKey(t *testing.T) {
	assert.Equal(t, "note:7", NoteCacheKey(7))
	assert.Equal(t, "user:profile:7", ProfileCacheKey(7))
}
