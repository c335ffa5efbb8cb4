package protocol

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// Kind categorizes a protocol-level failure.
type Kind int

const (
	// KindNetwork indicates a socket-level failure (refused, unreachable,
	// timed out, connection closed mid-exchange).
	KindNetwork Kind = iota
	// KindFraming indicates a frame whose declared length is inconsistent
	// with the bytes available or exceeds the sanity bound.
	KindFraming
	// KindProtocol indicates a payload that decoded but is not valid JSON,
	// lacks an expected module/operation section, or reported a non-zero
	// err_code.
	KindProtocol
	// KindValidation indicates a caller-supplied argument rejected before
	// any network I/O took place.
	KindValidation
)

// String returns a human-readable name for the error kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindFraming:
		return "framing error"
	case KindProtocol:
		return "protocol error"
	case KindValidation:
		return "validation error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the error type returned by every layer of the client. Addr is
// the device address the failing exchange targeted, when known.
type Error struct {
	Kind    Kind
	Message string
	Addr    string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Addr != "" {
		msg = fmt.Sprintf("%s (device %s)", msg, e.Addr)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewNetworkError builds a KindNetwork error wrapping cause.
func NewNetworkError(addr, message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Addr: addr, Err: cause}
}

// NewFramingError builds a KindFraming error wrapping cause.
func NewFramingError(addr, message string, cause error) *Error {
	return &Error{Kind: KindFraming, Message: message, Addr: addr, Err: cause}
}

// NewProtocolError builds a KindProtocol error wrapping cause.
func NewProtocolError(addr, message string, cause error) *Error {
	return &Error{Kind: KindProtocol, Message: message, Addr: addr, Err: cause}
}

// NewValidationError builds a KindValidation error. Validation failures
// have no underlying cause; they describe the rejected argument.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// IsKind reports whether err is (or wraps) a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}

// ClassifyNetError wraps a raw socket error as a *Error with a message
// describing what went wrong. Timeouts, refused connections, and
// unreachable hosts get specific messages since those are the failures
// users actually hit when a device is off or on another subnet.
func ClassifyNetError(addr string, err error) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return NewNetworkError(addr, "request timed out", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return NewNetworkError(addr, "device refused connection", err)
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return NewNetworkError(addr, "host unreachable", err)
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return NewNetworkError(addr, "network unreachable", err)
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NewNetworkError(addr, fmt.Sprintf("cannot resolve %s", dnsErr.Name), err)
	}

	return NewNetworkError(addr, "socket I/O failed", err)
}
