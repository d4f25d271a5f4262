package media

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sipcore/rtpmedia/pkg/dtmf"
	"github.com/sipcore/rtpmedia/pkg/engine"
)

// InactivityTimeout is the fixed inactivity window: no inbound packet
// within this window ends the call.
const InactivityTimeout = 10 * time.Second

// Watchdog is the inactivity-teardown timer: a `didit` flag set on
// every received packet, checked and cleared by a periodic tick; one
// silent tick means no packet arrived in the whole window, firing
// onFire exactly once.
type Watchdog struct {
	didit atomic.Bool
	timer engine.Timer
}

// NewWatchdog arms a watchdog on dispatcher with the given tick period
// and fires onFire (expected to call Call.Bye()) the first time a full
// period passes with no Touch call.
func NewWatchdog(dispatcher engine.Dispatcher, period time.Duration, onFire func()) *Watchdog {
	w := &Watchdog{}
	// AddTimer's first tick lands at t=period, not t=0, so starting
	// didit false here means a session with zero inbound packets fires
	// on that first tick — one full period, not two.
	w.didit.Store(false)
	w.timer = dispatcher.AddTimer(period, period, func() {
		if !w.didit.Swap(false) {
			onFire()
			w.timer.Stop()
		}
	}, "inactivity-watchdog")
	return w
}

// Touch records that a packet was received, keeping the watchdog from
// firing on the next tick.
func (w *Watchdog) Touch() {
	w.didit.Store(true)
}

// Stop cancels the watchdog. Idempotent via engine.Timer's contract.
func (w *Watchdog) Stop() {
	w.timer.Stop()
}

// DefaultDTMFFinalCallback builds the dtmf.FinalCallback a caller can
// attach to one queued event so that a negotiation failure (which also
// drains every event queued behind the offending one) is reported
// through this package's structured DTMFError instead of being
// silently dropped. digit and duration identify the event this
// callback belongs to, for the resulting error's context.
func DefaultDTMFFinalCallback(sessionID, digit string, duration time.Duration, log *slog.Logger) dtmf.FinalCallback {
	return func(status, reason string) {
		if status == "OK" {
			return
		}
		log.Warn("dtmf event failed", "error", newDTMFError(sessionID, reason, digit, duration))
	}
}
