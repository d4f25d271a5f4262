package rtp

import "fmt"

// ErrorCode classifies the fatal conditions the RTP layer can raise.
// Malformed packets and sequence drops are not represented here — a
// session treats those as silent drops, never as an error.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeSocketSend
	ErrCodeRecordFileOpen
	ErrCodeReadFileOpen
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeSocketSend:
		return "socket_send_failure"
	case ErrCodeRecordFileOpen:
		return "record_file_open_failure"
	case ErrCodeReadFileOpen:
		return "read_file_open_failure"
	default:
		return "unknown"
	}
}

// Error is this package's typed error: a stable code plus a human
// message and the underlying cause.
type Error struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("rtp: %s: %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("rtp: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is supports errors.Is comparisons against a code-only *Error
// sentinel, e.g. errors.Is(err, &Error{Code: ErrCodeSocketSend}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// newError wraps cause under code with a fixed message, matching the
// teacher's NewXError constructor convention in pkg/media/errors.go.
func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Wrapped: cause}
}

// RTPError specializes Error with the wire-level context of the packet
// a send failure happened on.
type RTPError struct {
	Base           *Error
	SSRC           uint32
	SequenceNumber uint16
	Timestamp      uint32
}

func (e *RTPError) Error() string {
	return e.Base.Error()
}

func (e *RTPError) Unwrap() error {
	return e.Base
}

func (e *RTPError) Is(target error) bool {
	return e.Base.Is(target)
}

// newRTPError wraps cause with the packet context that failed to send.
func newRTPError(code ErrorCode, message string, ssrc uint32, seq uint16, ts uint32, cause error) *RTPError {
	return &RTPError{
		Base:           newError(code, message, cause),
		SSRC:           ssrc,
		SequenceNumber: seq,
		Timestamp:      ts,
	}
}
