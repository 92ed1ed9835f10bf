// Package errs is the kernel's error-kind taxonomy: every fallible
// operation across session admission, password-file handling and
// execution returns one of these kinds wrapped in an Error, so callers
// can branch on Kind without string-matching messages — grounded on the
// original's Exception hierarchy (Kernel/Server/PasswordFile.cpp,
// Utility/Sqli) translated into Go's single-error-type-plus-kind idiom.
package errs

import "fmt"

// Kind names one category of failure.
type Kind string

const (
	AuthorizationFailed Kind = "authorization-failed"
	UserNotFound        Kind = "user-not-found"
	UserRequired        Kind = "user-required"
	TooLongUserName     Kind = "too-long-user-name"
	InvalidUserName     Kind = "invalid-user-name"
	BadPasswordFile      Kind = "bad-password-file"
	FileNotFound        Kind = "file-not-found"
	PermissionDenied    Kind = "permission-denied"
	NotCompatible       Kind = "not-compatible"
	NotSupported        Kind = "not-supported"
	Unexpected          Kind = "unexpected"
	Cancel              Kind = "cancel"
	MemoryExhaust       Kind = "memory-exhaust"
	ServerNotAvailable  Kind = "server-not-available"
	GoingShutdown       Kind = "going-shutdown"
	ConnectionRanOut    Kind = "connection-ran-out"
	BadArgument         Kind = "bad-argument"
)

// Error wraps a Kind with its cause, so %w unwrapping still reaches the
// underlying error (a driver error, an os.PathError, …) while callers can
// switch on Kind.
type Error struct {
	Kind  Kind
	Cause error
}

func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Cause: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error of the same kind as e, so
// errors.Is(err, errs.New(kind, nil)) matches any *Error of that kind in
// err's chain.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error, otherwise returns Unexpected.
func KindOf(err error) Kind {
	var e *Error
	for err != nil {
		if as, ok := err.(*Error); ok {
			e = as
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return Unexpected
	}
	return e.Kind
}
