package wifierr

import (
	"errors"
	"fmt"
)

// Kind represents the category of a wifid operation failure.
type Kind int

const (
	// KindInvalidParameter indicates a user-fixable validation failure.
	// These are never retried automatically.
	KindInvalidParameter Kind = iota
	// KindInvalidState indicates a sequencing mistake, such as using the
	// credential store before it has been initialized.
	KindInvalidState
	// KindNotFound indicates a credential lookup miss.
	KindNotFound
	// KindConnectFailed indicates the radio could not associate with the
	// target network within the retry policy.
	KindConnectFailed
	// KindTimeout indicates the overall wall-clock budget was the
	// limiting factor for a connection sequence.
	KindTimeout
	// KindPortalStartFailed indicates the access-point/captive-service
	// capability could not be brought up.
	KindPortalStartFailed
	// KindStoreFailed indicates a best-effort persistence failure. The
	// in-memory store state remains authoritative.
	KindStoreFailed
	// KindFilesystem indicates a file read/write failure outside the
	// credential persistence path.
	KindFilesystem
	// KindInsufficient indicates a resource limit (memory, storage) was
	// hit before the operation mutated shared state.
	KindInsufficient
)

// String returns a stable human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid parameter"
	case KindInvalidState:
		return "invalid state"
	case KindNotFound:
		return "not found"
	case KindConnectFailed:
		return "wifi connect failed"
	case KindTimeout:
		return "wifi timeout"
	case KindPortalStartFailed:
		return "portal start failed"
	case KindStoreFailed:
		return "credential store failed"
	case KindFilesystem:
		return "filesystem error"
	case KindInsufficient:
		return "insufficient resources"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Error is the failure type crossing every wifid package boundary. It
// pairs a machine-checkable Kind with the human-readable reason callers
// must surface, per the validation contract.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient. Only connectivity
// failures are subject to automatic retry.
func (e *Error) Retryable() bool {
	return e.Kind == KindConnectFailed || e.Kind == KindTimeout
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error carrying an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain. The second return is
// false when no *Error is present in the chain.
func KindOf(err error) (Kind, bool) {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsInvalidParameter reports whether err is a validation failure.
func IsInvalidParameter(err error) bool { return IsKind(err, KindInvalidParameter) }

// IsInvalidState reports whether err is a sequencing failure.
func IsInvalidState(err error) bool { return IsKind(err, KindInvalidState) }

// IsNotFound reports whether err is a credential lookup miss.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsTimeout reports whether err is a budget-exhaustion failure.
func IsTimeout(err error) bool { return IsKind(err, KindTimeout) }

// IsStoreFailed reports whether err is a best-effort persistence failure.
func IsStoreFailed(err error) bool { return IsKind(err, KindStoreFailed) }

// IsRetryable reports whether the error should be retried. Unknown
// errors are not retryable by default.
func IsRetryable(err error) bool {
	var we *Error
	if errors.As(err, &we) {
		return we.Retryable()
	}
	return false
}
