package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure so callers can branch on it instead of matching
// error strings.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindTranscription   Kind = "transcription"
	KindSchemaViolation Kind = "schema_violation"
	KindExternalService Kind = "external_service"
)

// Error pairs a Kind with an underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a kinded error from a message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

// Newf builds a kinded error from a format string.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

// Wrap annotates err with a message and attaches a kind. If err is already
// kinded, the original kind is preserved and only the message is added.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	if k := KindOf(err); k != "" {
		kind = k
	}
	return &Error{Kind: kind, Err: errors.Wrap(err, msg)}
}

// KindOf returns the kind attached to err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
