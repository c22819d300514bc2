// Package clierr classifies the failures nodectl can report so the command
// layer can tell a usage mistake from an unreachable node or a broken config
// file.
package clierr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a failure.
type Kind string

const (
	KindUsage        Kind = "EUSAGE"    // missing or invalid arguments, detected before any I/O
	KindNotFound     Kind = "ENOTFOUND" // referenced cluster has no section in the config
	KindConnectivity Kind = "ECONNECT"  // a request to a node could not complete
	KindFile         Kind = "EFILE"     // config file unreadable, unparsable or unwritable
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrUsage        = &Error{Kind: KindUsage}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConnectivity = &Error{Kind: KindConnectivity}
	ErrFile         = &Error{Kind: KindFile}
)

// Error is a classified failure. Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Usage returns a KindUsage error with a formatted message.
func Usage(format string, args ...any) error {
	return &Error{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error with a formatted message.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Connectivity wraps cause as a KindConnectivity error.
func Connectivity(cause error, format string, args ...any) error {
	return &Error{Kind: KindConnectivity, Message: fmt.Sprintf(format, args...), Err: cause}
}

// File wraps cause as a KindFile error.
func File(cause error, format string, args ...any) error {
	return &Error{Kind: KindFile, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsUsage(err error) bool        { return errors.Is(err, ErrUsage) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsConnectivity(err error) bool { return errors.Is(err, ErrConnectivity) }
func IsFile(err error) bool         { return errors.Is(err, ErrFile) }
