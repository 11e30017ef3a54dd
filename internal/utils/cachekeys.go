package utils

import "fmt"

// Cache key builders shared by the packages that read and the packages
// that invalidate.

func NoteCacheKey(noteID uint) string { return fmt.Sprintf("note:%d", noteID) }

// UserNotesCacheKey holds one cached note listing; scope names the slice
// ("root", "folder:<id>"). UserNotesCachePattern must glob every key the
// builder can produce, or invalidation silently misses entries.
func UserNotesCacheKey(userID uint, scope string) string {
	return fmt.Sprintf("notes:user:%d:%s", userID, scope)
}

func UserNotesCachePattern(userID uint) string { return fmt.Sprintf("notes:user:%d*", userID) }

func ProfileCacheKey(userID uint) string { return fmt.Sprintf("user:profile:%d", userID) }
