// Package sdkerr defines the error taxonomy shared by the codec, key and
// transaction packages. Every error carries a Kind (the category a caller
// branches on) and a Code (the specific condition tests assert on).
package sdkerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown    Kind = iota
	KindDecode          // malformed XDR, strkey or text input
	KindValidation      // rejected at build time, before any network interaction
	KindCrypto          // signature or key material failures
)

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindDecode:     "decode",
	KindValidation: "validation",
	KindCrypto:     "crypto",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a kinded, coded error. Two errors are considered the same by
// errors.Is when their codes match, so sentinels can be refined with a more
// specific message without breaking comparisons.
type Error struct {
	Kind    Kind
	Code    string // machine-readable condition, e.g. "checksum_mismatch"
	Message string
	Cause   error
}

// New returns a sentinel-style error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	msg := e.Code
	if e.Message != "" {
		msg = e.Code + ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Withf returns a copy of e with a formatted message.
func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Cause: e.Cause}
}

// Wrap returns a copy of e that records cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
