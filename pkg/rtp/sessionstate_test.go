package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStateAcceptsMonotonicSequence(t *testing.T) {
	s := NewSessionState(0)
	assert.True(t, s.Accept(100, 16000))
	assert.True(t, s.Accept(101, 16160))

	ltdiff, ok := s.LTDiff()
	require.True(t, ok)
	assert.Equal(t, uint32(160), ltdiff)
}

func TestSessionStateDropsReorderedAndDuplicate(t *testing.T) {
	s := NewSessionState(0)
	require.True(t, s.Accept(200, 0))
	require.True(t, s.Accept(201, 160))

	assert.False(t, s.Accept(200, 0), "duplicate must be dropped")
	assert.False(t, s.Accept(150, 0), "reordered (not wrapped) must be dropped")
}

func TestSessionStateSequenceWrap(t *testing.T) {
	s := NewSessionState(0)
	require.True(t, s.Accept(65534, 1000))
	require.True(t, s.Accept(65535, 1160))
	require.True(t, s.Accept(0, 1320), "sequence wrap must be accepted as forward progress")

	ltdiff, ok := s.LTDiff()
	require.True(t, ok)
	assert.Equal(t, uint32(160), ltdiff)
}

func TestNextWSeqIncrementsAndWraps(t *testing.T) {
	s := NewSessionState(0)
	first := s.NextWSeq()
	second := s.NextWSeq()
	assert.Equal(t, first+1, second)

	// Force the generator right up to the wrap boundary and confirm
	// uint16 arithmetic wraps naturally.
	s.wseq = 0xFFFF
	wrapped := s.NextWSeq()
	assert.Equal(t, uint16(0), wrapped)
}

func TestPushDelayHoldsExactlyDelayPackets(t *testing.T) {
	s := NewSessionState(0)

	out := s.PushDelay(DelayedPacket{Payload: []byte("a"), Seq: 1}, 2)
	assert.Empty(t, out)
	out = s.PushDelay(DelayedPacket{Payload: []byte("b"), Seq: 2}, 2)
	assert.Empty(t, out)
	out = s.PushDelay(DelayedPacket{Payload: []byte("c"), Seq: 3}, 2)
	require.Len(t, out, 1)
	assert.Equal(t, uint16(1), out[0].Seq)
}

func TestPushDelayZeroDrainsImmediately(t *testing.T) {
	s := NewSessionState(0)
	out := s.PushDelay(DelayedPacket{Payload: []byte("x"), Seq: 7, Timestamp: 99}, 0)
	require.Len(t, out, 1)
	assert.Equal(t, uint16(7), out[0].Seq)
	assert.Equal(t, uint32(99), out[0].Timestamp)
}

func TestNormalizeRepeat(t *testing.T) {
	assert.Equal(t, -1, normalizeRepeat(0))
	assert.Equal(t, -1, normalizeRepeat(-5))
	assert.Equal(t, 3, normalizeRepeat(3))
}

func TestSeqTsDeltaWrapAware(t *testing.T) {
	assert.Equal(t, uint32(2), seqDelta(65535, 1))
	assert.Equal(t, uint64(2), tsDelta(0xFFFFFFFF, 1))
}
