package dtmf

import (
	"time"

	"github.com/looplab/fsm"
)

// FinalCallback is invoked exactly once per event, when it completes
// ("OK") or fails ("FAIL", with a reason).
type FinalCallback func(status, reason string)

// Event is a queued telephony event plus the mutable state the engine
// stamps onto it the first time it reaches the head of the queue. A
// nil Symbol with AudioType set means "emit silence".
type Event struct {
	Symbol      *Symbol
	Volume      uint8 // default 10
	DurationMs  uint32
	RFC2833Type *uint8 // negotiated telephony-event payload type, if any
	AudioType   *uint8 // negotiated audio payload type, if any
	CbFinal     FinalCallback

	// Populated on first touch, the first time this event reaches the
	// head of the queue and is actually emitted.
	started        bool
	startTimestamp uint32
	startWallclock time.Time
	generator      *Generator
	machine        *fsm.FSM
}

// NewEvent builds a queued event for sym with the given duration.
// Volume defaults to 10 if zero.
func NewEvent(sym Symbol, durationMs uint32, rfc2833Type, audioType *uint8, cbFinal FinalCallback) *Event {
	return &Event{
		Symbol:      &sym,
		Volume:      10,
		DurationMs:  durationMs,
		RFC2833Type: rfc2833Type,
		AudioType:   audioType,
		CbFinal:     cbFinal,
	}
}

// touch stamps the start timestamp and wallclock on first reference
// and reports whether this call performed the stamping.
func (e *Event) touch(nowTimestamp uint32) bool {
	if e.started {
		return false
	}
	e.started = true
	e.startTimestamp = nowTimestamp
	e.startWallclock = time.Now()
	return true
}

// Elapsed reports how long ago the event was first touched.
func (e *Event) Elapsed() time.Duration {
	if !e.started {
		return 0
	}
	return time.Since(e.startWallclock)
}

// ended reports whether the event's duration has elapsed.
func (e *Event) ended() bool {
	return e.Elapsed() >= time.Duration(e.DurationMs)*time.Millisecond
}

// finish invokes CbFinal, if set, exactly once.
func (e *Event) finish(status, reason string) {
	if e.CbFinal != nil {
		e.CbFinal(status, reason)
	}
}

// Queue is the per-session FIFO of pending DTMF events. Only the head
// is ever inspected or acted on; an event is popped only once it ends
// normally or fails.
type Queue struct {
	items []*Event
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends ev to the tail of the queue.
func (q *Queue) Push(ev *Event) {
	q.items = append(q.items, ev)
}

// Front returns the head event without removing it, or nil if empty.
func (q *Queue) Front() *Event {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Pop removes and returns the head event, or nil if empty.
func (q *Queue) Pop() *Event {
	if len(q.items) == 0 {
		return nil
	}
	ev := q.items[0]
	q.items = q.items[1:]
	return ev
}

// Len reports the number of pending events.
func (q *Queue) Len() int {
	return len(q.items)
}

// DrainFail pops and fails every remaining event (including the head)
// with the given reason: an event that can't be encoded for the
// negotiated payload types poisons everything queued behind it, since
// the queue only ever acts on its head.
func (q *Queue) DrainFail(reason string) {
	for {
		ev := q.Pop()
		if ev == nil {
			return
		}
		ev.finish("FAIL", reason)
	}
}
