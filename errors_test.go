package fetch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsAndKind(t *testing.T) {
	cause := errors.New("dial tcp: lookup nowhere: no such host")
	err := fmt.Errorf("wrapped: %w", newError(KindHostNotFound, "request", "http://nowhere", cause))

	assert.ErrorIs(t, err, ErrHostNotFound)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindHostNotFound, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("other")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestError_Message(t *testing.T) {
	err := newError(KindTimeout, "request", "http://slow", errors.New("read timed out"))
	assert.Equal(t, "fetch: request: timeout (http://slow): read timed out", err.Error())

	err = &Error{Kind: KindInvalidMethod}
	assert.Equal(t, "fetch: invalid method", err.Error())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "invalid charset", KindInvalidCharset.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
