package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundCarriesCode(t *testing.T) {
	err := NotFound("user", "42")

	assert.True(t, IsNotFound(err))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, `user "42"`, GetMessage(err))
	assert.Equal(t, `user "42": not found`, err.Error())
}

func TestInvalidWrapsCause(t *testing.T) {
	cause := stderrors.New("unknown view \"feed\"")
	err := Invalid(cause)

	assert.True(t, IsInvalidInput(err))
	assert.True(t, Is(err, cause))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Nil(t, Invalid(nil))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "load"))
	assert.Nil(t, WrapWithCode(nil, CodeUnavailable, "load"))
}

func TestPlainErrorHasNoCode(t *testing.T) {
	err := fmt.Errorf("boom")
	assert.Empty(t, GetCode(err))
	assert.Equal(t, "boom", GetMessage(err))
	assert.Empty(t, GetMessage(nil))
}

func TestUnavailableCarriesCode(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := Unavailable("fixture database", cause)

	assert.True(t, IsServiceUnavailable(err))
	assert.True(t, Is(err, cause))
	assert.Equal(t, CodeUnavailable, GetCode(err))
	assert.Equal(t, "fixture database", GetMessage(err))
	assert.Nil(t, Unavailable("fixture database", nil))
}
