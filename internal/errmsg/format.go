// Package errmsg tags errors with the pipeline stage that produced them and
// formats them for the user.
package errmsg

import (
	"errors"
	"fmt"
)

// Op represents an operation that can fail.
type Op string

// Operation constants, in pipeline order.
const (
	OpLoadConfig    Op = "load configuration"
	OpOpenDatabase  Op = "open pokemon database"
	OpLoadBundle    Op = "load sprite bundle"
	OpSelectPokemon Op = "select pokemon"
	OpLoadSprite    Op = "load sprite"
	OpDecodeSprite  Op = "decode sprite"
	OpRenderSprite  Op = "render sprite"
	OpRenderCaption Op = "render caption"
	OpCheckBundle   Op = "check sprite bundle"
)

// Error is an error annotated with the operation that failed.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return string(e.Op) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap annotates err with op. It returns nil when err is nil. An error
// already annotated keeps its operation, so the stage that failed first is
// the one reported.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := OpOf(err); ok {
		return err
	}
	return &Error{Op: op, Err: err}
}

// OpOf returns the outermost operation recorded on err.
func OpOf(err error) (Op, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Op, true
	}
	return "", false
}

// Format creates a user-friendly error message.
// Annotated errors use their own operation.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("Error: %v", err)
}
