package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagEncoding(t *testing.T) {
	assert.Empty(t, EncodeTags(nil))
	assert.Empty(t, EncodeTags([]string{}))
	assert.Equal(t, ",go,", EncodeTags([]string{"go"}))
	assert.Equal(t, ",go,draft,", EncodeTags([]string{"go", "draft"}))

	assert.Empty(t, DecodeTags(""))
	assert.Equal(t, []string{"go", "draft"}, DecodeTags(",go,draft,"))
}

func TestHasTagIsExact(t *testing.T) {
	note := Note{Tags: EncodeTags([]string{"Draft", "work"})}

	assert.True(t, note.HasTag("work"))
	assert.True(t, note.HasTag("Draft"))

	// case and substrings do not match
	assert.False(t, note.HasTag("draft"))
	assert.False(t, note.HasTag("wor"))
	assert.False(t, note.HasTag("raft"))
	assert.False(t, note.HasTag(""))
}

func TestTagPattern(t *testing.T) {
	assert.Equal(t, "%,go,%", TagPattern("go"))
}
