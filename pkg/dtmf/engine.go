package dtmf

import (
	"context"

	"github.com/looplab/fsm"
)

// Encoding identifies how a DTMF Frame was encoded, for metrics and
// test assertions.
type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingRFC2833
	EncodingAudio
)

// Frame is one outbound datagram's DTMF-specific framing info, handed
// back to the caller (pkg/media's session controllers) to build with
// rtp.Build. This package never imports pkg/rtp, so the DTMF engine
// depends on the caller's framer rather than the other way around.
type Frame struct {
	Encoding    Encoding
	PayloadType uint8
	Timestamp   uint32 // absolute outbound timestamp for this packet
	Marker      bool
	Payload     []byte
	Repeat      int
}

// Engine is the per-session DTMF state machine runner. It holds no
// queue of its own — the queue is a field of the session controller's
// composed state, and Consult is called with it each send opportunity.
type Engine struct{}

// NewEngine returns a DTMF engine. It is stateless; all mutable state
// lives on the queued Events themselves.
func NewEngine() *Engine {
	return &Engine{}
}

// eventFSM returns the per-event state machine, creating and arming it
// on first touch. An event starts armed (queued, not yet stamped);
// touch moves it to active (mid-burst); once its duration elapses it
// moves to ending, where it emits its repeat end packets before
// completing; any of the three non-terminal states can instead move
// straight to failed if the peer has negotiated neither RFC 2833 nor a
// fallback audio payload type. Modeled with looplab/fsm the way the
// teacher models dialog/call state in pkg/dialog.
func eventFSM(ev *Event) *fsm.FSM {
	if ev.machine == nil {
		ev.machine = fsm.NewFSM(
			"armed",
			fsm.Events{
				{Name: "touch", Src: []string{"armed"}, Dst: "active"},
				{Name: "end", Src: []string{"active"}, Dst: "ending"},
				{Name: "complete", Src: []string{"ending"}, Dst: "done"},
				{Name: "fail", Src: []string{"armed", "active", "ending"}, Dst: "failed"},
			},
			fsm.Callbacks{},
		)
	}
	return ev.machine
}

// Consult inspects the head event, stamps it on first touch, decides
// RFC 2833 vs synthesized audio vs failure, and pops+finishes on
// completion. nowTimestamp is the caller's current nominal outbound
// timestamp; tdiff is the per-packet timestamp delta used to compute
// the RFC 2833 event duration field; samplesPerPacket sizes the
// audio-tone fallback. ok reports whether a frame was produced; failed
// reports whether the head event was just drained for lack of a
// negotiated encoding, so callers can count that distinctly from the
// plain empty-queue case. Callers should emit their regular payload
// whenever ok is false.
func (e *Engine) Consult(queue *Queue, nowTimestamp uint32, tdiff uint32, samplesPerPacket uint32) (frame *Frame, ok bool, failed bool) {
	head := queue.Front()
	if head == nil {
		return nil, false, false
	}

	machine := eventFSM(head)
	if head.touch(nowTimestamp) {
		_ = machine.Event(context.Background(), "touch")
	}

	// Only an active (touched, not yet ending) event can reach its end
	// boundary; an event already in "ending" stays there until the
	// repeat burst below pops it, so re-evaluating head.ended() would
	// be redundant and can't move the machine twice in one Consult.
	if machine.Current() == "active" && head.ended() {
		_ = machine.Event(context.Background(), "end")
	}
	ending := machine.Current() == "ending"
	eventTdiff := uint16((nowTimestamp - head.startTimestamp) + tdiff)

	switch {
	case head.RFC2833Type != nil && head.Symbol != nil:
		repeat := 1
		endFlag := uint8(0)
		if ending {
			repeat = 3
			endFlag = 1
		}
		payload := []byte{
			head.Symbol.EventCode(),
			(endFlag << 7) | (head.Volume & 0x3F),
			byte(eventTdiff >> 8),
			byte(eventTdiff),
		}
		frame = &Frame{
			Encoding:    EncodingRFC2833,
			PayloadType: *head.RFC2833Type,
			Timestamp:   head.startTimestamp,
			Marker:      true,
			Payload:     payload,
			Repeat:      repeat,
		}

	case head.AudioType != nil:
		var samples []byte
		if head.Symbol == nil {
			samples = Silence(int(samplesPerPacket))
		} else {
			if head.generator == nil {
				head.generator = NewGenerator(*head.Symbol, head.Volume)
			}
			samples = head.generator.Next(int(samplesPerPacket))
		}
		frame = &Frame{
			Encoding:    EncodingAudio,
			PayloadType: *head.AudioType,
			Timestamp:   nowTimestamp,
			Marker:      false,
			Payload:     samples,
			Repeat:      1,
		}

	default:
		_ = machine.Event(context.Background(), "fail")
		queue.DrainFail("neither rfc2833 nor audio are supported by peer")
		return nil, false, true
	}

	if machine.Current() == "ending" {
		_ = machine.Event(context.Background(), "complete")
		queue.Pop()
		head.finish("OK", "")
	}

	return frame, true, false
}
