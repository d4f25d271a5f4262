// Package engine defines the collaborator interfaces consumed by the RTP
// media layer: the per-stream socket, the event loop and timer
// dispatcher, and the call object. None of these are implemented by the
// signaling stack here — they are the boundary described by the media
// engine's external interfaces. A reference, goroutine-based
// implementation is provided in loop.go for tests and cmd/rtpdemo.
package engine

import (
	"net"
	"time"
)

// Socket is one local media endpoint, bound and owned by the signaling
// layer before a session is initialized. The media engine only reads
// from and writes to it; it never creates or binds one.
type Socket interface {
	// ReadFrom reads one datagram. Implementations that support
	// non-blocking mode return net.ErrClosed-style errors or a
	// wrapped syscall.EAGAIN when no datagram is pending; the
	// reference Loop below translates that into "stop draining".
	ReadFrom(buf []byte) (n int, addr net.Addr, err error)

	// WriteTo sends one datagram to addr.
	WriteTo(buf []byte, addr net.Addr) (n int, err error)

	// SetNonblock toggles the socket's blocking mode where the
	// platform supports it. Implementations that cannot support
	// non-blocking mode return nil and the Loop falls back to one
	// read per ready notification.
	SetNonblock(nonblocking bool) error

	Close() error
}

// Timer is a handle to a scheduled, cancelable callback.
type Timer interface {
	// Stop cancels the timer. Idempotent.
	Stop()
}

// Dispatcher schedules periodic or one-shot callbacks on the event
// loop's thread of execution.
type Dispatcher interface {
	// AddTimer schedules handler to first run after initial, then
	// every period thereafter (period == 0 means one-shot). tag is
	// opaque, used only for diagnostics.
	AddTimer(initial time.Duration, period time.Duration, handler func(), tag string) Timer
}

// Loop is the socket-readiness half of the event loop.
type Loop interface {
	// AddFD registers sock for readability; handler is invoked with
	// each datagram's payload and source address as they arrive, in
	// arrival order. tag is opaque, used only for diagnostics.
	AddFD(sock Socket, handler func(payload []byte, addr net.Addr), tag string)

	// DelFD deregisters sock. Idempotent.
	DelFD(sock Socket)
}

// Call is the minimal slice of the call object the media engine is
// allowed to touch: ending the call, and registering LIFO cleanup
// actions that run on teardown.
type Call interface {
	// Bye ends the call. Safe to call more than once.
	Bye()

	// RegisterCleanup appends fn to the call's cleanup list. On
	// teardown the call runs its cleanup list in LIFO order.
	RegisterCleanup(fn func())
}
