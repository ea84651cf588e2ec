// Package errors wraps pkg/errors and includes some custom features such as
// error codes.
package errors

import (
	"github.com/pkg/errors"
)

// Code is an error code which can be used to check against a given error. For
// example, see the Is() method.
type Code string

// Error codes used across dsctl. Per-row codes (PathConflict,
// MissingIdentityKey, UnexpectedIdentityKey, RemoteOperationFailed) are
// isolated to a single bulk outcome; the rest abort the command.
const (
	ErrUncoded Code = "Uncoded"

	ErrInvalidPath              Code = "InvalidPath"
	ErrPathConflict             Code = "PathConflict"
	ErrSeparatorDetectionFailed Code = "SeparatorDetectionFailed"
	ErrInvalidFilterSyntax      Code = "InvalidFilterSyntax"
	ErrMissingIdentityKey       Code = "MissingIdentityKey"
	ErrUnexpectedIdentityKey    Code = "UnexpectedIdentityKey"
	ErrRemoteOperationFailed    Code = "RemoteOperationFailed"
	ErrCancelled                Code = "Cancelled"
	ErrBadConfig                Code = "BadConfig"
	ErrNotFound                 Code = "NotFound"
	ErrNotUnique                Code = "NotUnique"
)

func New(code Code, message string) error {
	return errors.WithStack(codedError{
		Code:    code,
		Message: message,
	})
}

func Newf(code Code, format string, args ...interface{}) error {
	return errors.WithStack(codedError{
		Code:    code,
		Message: errors.Errorf(format, args...).Error(),
	})
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Cause(err error) error {
	return errors.Cause(err)
}

func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Is is a fork of the Is() method from `pkg/errors` which takes as its target
// an error Code instead of an error.
func Is(err error, target Code) bool {
	match := codedError{
		Code: target,
	}
	return errors.Is(err, match)
}

// CodeOf returns the Code carried by err, or ErrUncoded if err carries none.
func CodeOf(err error) Code {
	if ce, ok := Cause(err).(codedError); ok {
		return ce.Code
	}
	return ErrUncoded
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func WithMessage(err error, message string) error {
	return errors.WithMessage(err, message)
}

func WithMessagef(err error, format string, args ...interface{}) error {
	return errors.WithMessagef(err, format, args...)
}

func WithStack(err error) error {
	return errors.WithStack(err)
}

func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

func Wrapf(err error, fmt string, args ...interface{}) error {
	return errors.Wrapf(err, fmt, args...)
}

// codedError is the fundamental type used by this package to provide coded
// errors.
type codedError struct {
	Code    Code
	Message string
}

func (ce codedError) Error() string {
	return ce.Message
}

func (ce codedError) Is(err error) bool {
	if e, ok := err.(codedError); ok && ce.Code == e.Code {
		return true
	}
	return false
}
