package errors

import (
	"errors"
	"fmt"
)

// Sentinels every coded error wraps, so errors.Is keeps working across layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Codes carried by Error so surfaces can map failures without string matching.
const (
	CodeNotFound     = "not_found"
	CodeInvalidInput = "invalid_input"
	CodeUnavailable  = "unavailable"
)

// Error attaches a machine readable code and a short message to a cause.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap adds context to err without assigning a code. Nil stays nil.
func Wrap(err error, message string) error {
	return WrapWithCode(err, "", message)
}

// WrapWithCode adds context and a code to err. Nil stays nil.
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// NotFound reports a missing entity, e.g. NotFound("user", "42").
func NotFound(entity, id string) error {
	return WrapWithCode(ErrNotFound, CodeNotFound, fmt.Sprintf("%s %q", entity, id))
}

// Invalid marks cause as a caller mistake.
func Invalid(cause error) error {
	if cause == nil {
		return nil
	}
	return WrapWithCode(fmt.Errorf("%w: %w", ErrInvalidInput, cause), CodeInvalidInput, "invalid input")
}

// Unavailable marks cause as a dependency that could not be reached.
func Unavailable(what string, cause error) error {
	if cause == nil {
		return nil
	}
	return WrapWithCode(fmt.Errorf("%w: %w", ErrServiceUnavailable, cause), CodeUnavailable, what)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode returns the code of the outermost coded error in the chain.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the coded message, or err.Error() for plain errors.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}
