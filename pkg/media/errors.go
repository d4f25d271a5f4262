package media

import (
	"fmt"
	"time"
)

// ErrorCode classifies the fatal conditions a session controller can
// surface: a flat int enum grouped by area, trimmed to this engine's
// actual failure modes.
type ErrorCode int

const (
	ErrorCodeUnknown ErrorCode = iota + 1000
	ErrorCodeSocketSendFailed
	ErrorCodeRecordFileOpenFailed
	ErrorCodeReadFileOpenFailed
	ErrorCodeDTMFNegotiationFailed
	ErrorCodeInactivityTimeout
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeSocketSendFailed:
		return "socket_send_failed"
	case ErrorCodeRecordFileOpenFailed:
		return "record_file_open_failed"
	case ErrorCodeReadFileOpenFailed:
		return "read_file_open_failed"
	case ErrorCodeDTMFNegotiationFailed:
		return "dtmf_negotiation_failed"
	case ErrorCodeInactivityTimeout:
		return "inactivity_timeout"
	default:
		return "unknown"
	}
}

// Error is this package's typed error: a stable code, a human
// message, the session this occurred on, and an optional wrapped
// cause.
type Error struct {
	Code      ErrorCode
	Message   string
	SessionID string
	Wrapped   error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("media[%s]: %s: %s: %v", e.SessionID, e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("media[%s]: %s: %s", e.SessionID, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// newError constructs an Error.
func newError(sessionID string, code ErrorCode, message string, cause error) *Error {
	return &Error{SessionID: sessionID, Code: code, Message: message, Wrapped: cause}
}

// DTMFError specializes Error with the digit and negotiated duration
// of a queued event that failed.
type DTMFError struct {
	*Error
	Digit    string
	Duration time.Duration
}

func newDTMFError(sessionID, reason, digit string, duration time.Duration) *DTMFError {
	return &DTMFError{
		Error:    newError(sessionID, ErrorCodeDTMFNegotiationFailed, reason, nil),
		Digit:    digit,
		Duration: duration,
	}
}

// WatchdogError specializes Error with the configured inactivity
// window for a watchdog-fired teardown.
type WatchdogError struct {
	*Error
	Timeout time.Duration
}

func newWatchdogError(sessionID string, timeout time.Duration) *WatchdogError {
	return &WatchdogError{
		Error:   newError(sessionID, ErrorCodeInactivityTimeout, "no inbound packet within inactivity window", nil),
		Timeout: timeout,
	}
}
