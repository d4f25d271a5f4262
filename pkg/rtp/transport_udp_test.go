package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDPSocketSendReceiveRoundTrip(t *testing.T) {
	a, err := NewUDPSocket("127.0.0.1:0", 0)
	require.NoError(t, err)
	defer a.Close()

	b, err := NewUDPSocket("127.0.0.1:0", 0)
	require.NoError(t, err)
	defer b.Close()

	_, err = a.WriteTo([]byte("hello"), b.LocalAddr())
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, _, err := b.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestUDPSocketNonblockReturnsErrWouldBlock(t *testing.T) {
	s, err := NewUDPSocket("127.0.0.1:0", 0)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SetNonblock(true))
	buf := make([]byte, 64)
	_, _, err = s.ReadFrom(buf)
	assert.ErrorIs(t, err, ErrWouldBlock)
}

func TestUDPSocketCloseIdempotent(t *testing.T) {
	s, err := NewUDPSocket("127.0.0.1:0", 0)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
