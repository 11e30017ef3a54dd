package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeMatching(t *testing.T) {
	err := NotFound("folder %d not found", 7)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))
	assert.True(t, errors.Is(err, NotFound("any message")))

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("loading tree: %w", err)
		assert.True(t, IsNotFound(wrapped))
		code, ok := CodeOf(wrapped)
		assert.True(t, ok)
		assert.Equal(t, CodeNotFound, code)
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		_, ok := CodeOf(errors.New("disk on fire"))
		assert.False(t, ok)
	})
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable(cause, "storage did not accept the write")

	assert.True(t, IsUnavailable(err))
	assert.True(t, errors.Is(err, cause))
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(NotFound("gone")))
	assert.False(t, Retryable(Forbidden("no")))
	assert.False(t, Retryable(CycleDetected("loop")))
	assert.True(t, Retryable(Unavailable(nil, "down")))
	assert.True(t, Retryable(errors.New("driver: bad connection")))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Forbidden("x"), http.StatusForbidden},
		{InvalidArgument("x"), http.StatusBadRequest},
		{CycleDetected("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{Unavailable(nil, "x"), http.StatusServiceUnavailable},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}
