// Package rperror tags errors with the kind of failure that produced them, so
// callers can tell a bad input apart from an unexpected upstream layout or an
// infrastructure failure.
package rperror

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error for presentation.
type Kind int

const (
	// KindGeneric covers configuration, transport and decoding failures.
	KindGeneric Kind = iota
	// KindUsage means the caller supplied an input that cannot be used.
	KindUsage
	// KindStructure means upstream data did not have the expected shape.
	KindStructure
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindStructure:
		return "unexpected structure"
	default:
		return "generic"
	}
}

// Error is an error carrying its Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func Usage(msg string) error {
	return &Error{Kind: KindUsage, Message: msg}
}

func Usagef(format string, args ...interface{}) error {
	return &Error{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}

func Structure(msg string) error {
	return &Error{Kind: KindStructure, Message: msg}
}

func Structuref(format string, args ...interface{}) error {
	return &Error{Kind: KindStructure, Message: fmt.Sprintf(format, args...)}
}

func Generic(msg string) error {
	return &Error{Kind: KindGeneric, Message: msg}
}

// Wrap annotates err as a generic failure. A nil err returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindGeneric, Message: msg, Err: err}
}

// KindOf returns the kind of the first Error found in err's chain. Errors
// that were never tagged are generic.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// IsUsage reports whether err is a usage error.
func IsUsage(err error) bool { return err != nil && KindOf(err) == KindUsage }

// IsStructure reports whether err is an unexpected structure error.
func IsStructure(err error) bool { return err != nil && KindOf(err) == KindStructure }
