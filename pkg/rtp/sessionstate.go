package rtp

import (
	"sync"
)

// wrap constants for modular arithmetic over sequence numbers and
// timestamps.
const (
	seqModulus uint32 = 1 << 16
	tsModulus  uint64 = 1 << 32
)

// SessionState is the per-socket-pair mutable state: last received
// (seq, timestamp), the inferred timestamp-per-sequence slope, the
// outbound sequence generator, and the echo delay FIFO. It does not
// hold the DTMF queue or the record/playback file handles: the DTMF
// Engine depends on this state for inbound timing inference, not the
// other way around, so the queue is composed at the pkg/media
// controller layer to avoid a reverse import from pkg/rtp into
// pkg/dtmf; the file handles are likewise owned by the session
// controller that opens and closes them (EchoSession/PlaybackSession),
// not this state.
type SessionState struct {
	mu sync.Mutex

	haveRecv bool
	rseq     uint16
	rts      uint32

	haveLTDiff bool
	ltdiff     uint32

	haveWSeq bool
	wseq     uint16

	// DelayBuffer is the echo-mode FIFO of held packets: each inbound
	// payload is appended, then while the buffer holds more than delay
	// entries the front is popped and sent. Echo forwards the inbound
	// seq/timestamp unchanged, so each entry keeps its original header
	// fields.
	DelayBuffer []DelayedPacket

	// RepeatsRemaining seeds a PlaybackSession's own repeat counter;
	// -1 means infinite, 0 means exhausted.
	RepeatsRemaining int
}

// NewSessionState returns a SessionState with no prior sequence seen
// and the given repeat count, as configured for playback (<=0 means
// infinite).
func NewSessionState(repeat int) *SessionState {
	return &SessionState{RepeatsRemaining: normalizeRepeat(repeat)}
}

// normalizeRepeat maps the <=0-means-infinite repeat convention onto
// the internal -1-means-infinite sentinel.
func normalizeRepeat(repeat int) int {
	if repeat <= 0 {
		return -1
	}
	return repeat
}

// Accept applies the monotonic-sequence filter, dropping packets that
// arrive at or behind the last accepted sequence number (accounting
// for 16-bit wraparound). If accepted, it updates rseq/rts and infers
// ltdiff, the timestamp-per-sequence slope, from the delta to the
// previous packet. It reports whether the packet should be processed
// further.
func (s *SessionState) Accept(seq uint16, timestamp uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.haveRecv {
		prevSeq := uint32(s.rseq)
		curSeq := uint32(seq)
		if prevSeq >= curSeq && prevSeq-curSeq < 60000 {
			return false
		}

		deltaSeq := seqDelta(s.rseq, seq)
		deltaTS := tsDelta(s.rts, timestamp)
		if deltaSeq > 0 {
			s.ltdiff = uint32(deltaTS / uint64(deltaSeq))
			s.haveLTDiff = true
		}
	}

	s.rseq = seq
	s.rts = timestamp
	s.haveRecv = true
	return true
}

// LTDiff reports the inferred timestamp-per-sequence slope and whether
// it has been observed yet (requires at least two accepted packets).
func (s *SessionState) LTDiff() (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ltdiff, s.haveLTDiff
}

// NextWSeq returns the next outbound sequence number: random on first
// use, then monotonically incremented modulo 2^16.
func (s *SessionState) NextWSeq() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.haveWSeq {
		s.wseq = randomUint16()
		s.haveWSeq = true
		return s.wseq
	}
	s.wseq++
	return s.wseq
}

// DelayedPacket is one entry in the echo delay FIFO: the inbound
// payload and the header fields to forward unchanged.
type DelayedPacket struct {
	Payload     []byte
	Seq         uint16
	Timestamp   uint32
	PayloadType PayloadType
	Marker      bool
}

// PushDelay appends pkt to the echo delay FIFO and, while the buffer
// exceeds delay entries, pops and returns the front entries to send.
// delay < 0 callers should not call this; delay == 0 drains
// immediately.
func (s *SessionState) PushDelay(pkt DelayedPacket, delay int) []DelayedPacket {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(pkt.Payload))
	copy(buf, pkt.Payload)
	pkt.Payload = buf
	s.DelayBuffer = append(s.DelayBuffer, pkt)

	var out []DelayedPacket
	for len(s.DelayBuffer) > delay {
		out = append(out, s.DelayBuffer[0])
		s.DelayBuffer = s.DelayBuffer[1:]
	}
	return out
}

// seqDelta computes the wrap-aware forward distance from prev to cur
// over the 16-bit sequence space.
func seqDelta(prev, cur uint16) uint32 {
	return (uint32(cur) + seqModulus - uint32(prev)) % seqModulus
}

// tsDelta computes the wrap-aware forward distance from prev to cur
// over the 32-bit timestamp space.
func tsDelta(prev, cur uint32) uint64 {
	return (uint64(cur) + tsModulus - uint64(prev)) % tsModulus
}
