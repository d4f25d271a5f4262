package media

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipcore/rtpmedia/pkg/dtmf"
	"github.com/sipcore/rtpmedia/pkg/engine"
	"github.com/sipcore/rtpmedia/pkg/rtp"
)

func newLoopbackPair(t *testing.T) (senderSock, sessionSock *rtp.UDPSocket) {
	t.Helper()
	senderSock, err := rtp.NewUDPSocket("127.0.0.1:0", 0)
	require.NoError(t, err)
	t.Cleanup(func() { senderSock.Close() })

	sessionSock, err = rtp.NewUDPSocket("127.0.0.1:0", 0)
	require.NoError(t, err)
	t.Cleanup(func() { sessionSock.Close() })

	return senderSock, sessionSock
}

func recvWithTimeout(t *testing.T, sock *rtp.UDPSocket, timeout time.Duration) *rtp.RtpPacket {
	t.Helper()
	buf := make([]byte, 1500)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		n, _, err := sock.ReadFrom(buf)
		if err != nil {
			if err == rtp.ErrWouldBlock {
				time.Sleep(time.Millisecond)
				continue
			}
			require.NoError(t, err)
		}
		pkt, err := rtp.Parse(buf[:n])
		require.NoError(t, err)
		return pkt
	}
	t.Fatal("timed out waiting for a packet")
	return nil
}

// scenario 1: echo with delay=0, seq/timestamp unchanged.
func TestEchoSessionDelayZeroPreservesSeqAndTimestamp(t *testing.T) {
	sender, sessSock := newLoopbackPair(t)
	require.NoError(t, sender.SetNonblock(true))

	loop := engine.NewGoroutineLoop()
	dispatcher := engine.NewGoroutineDispatcher()
	call := engine.NewGoroutineCall(nil)

	session := NewEchoSession("t1", loop, dispatcher, call, sessSock, sender.LocalAddr(),
		rtp.PCMU8000_20ms, dtmf.NewQueue(), EchoConfig{Delay: 0})
	session.Start()
	defer session.Stop()

	cases := []struct{ seq, ts uint32 }{{100, 1000}, {101, 1160}, {102, 1320}}
	for _, c := range cases {
		raw := rtp.Build(rtp.BuildOptions{
			PayloadType:    rtp.PayloadTypePCMU,
			SequenceNumber: uint16(c.seq),
			Timestamp:      c.ts,
			SSRC:           0xaaaa,
		}, []byte{1, 2, 3, 4})
		_, err := sender.WriteTo(raw, sessSock.LocalAddr())
		require.NoError(t, err)

		got := recvWithTimeout(t, sender, time.Second)
		assert.Equal(t, uint16(c.seq), got.Header.SequenceNumber)
		assert.Equal(t, c.ts, got.Header.Timestamp)
		assert.Equal(t, []byte{1, 2, 3, 4}, got.Payload)
	}
}

// scenario 2: echo with delay=2, feed 5 packets, expect echoes of 1, 2, 3.
func TestEchoSessionDelayTwoHoldsThenDrains(t *testing.T) {
	sender, sessSock := newLoopbackPair(t)
	require.NoError(t, sender.SetNonblock(true))

	loop := engine.NewGoroutineLoop()
	dispatcher := engine.NewGoroutineDispatcher()
	call := engine.NewGoroutineCall(nil)

	session := NewEchoSession("t2", loop, dispatcher, call, sessSock, sender.LocalAddr(),
		rtp.PCMU8000_20ms, dtmf.NewQueue(), EchoConfig{Delay: 2})
	session.Start()
	defer session.Stop()

	for i := 0; i < 5; i++ {
		raw := rtp.Build(rtp.BuildOptions{
			PayloadType:    rtp.PayloadTypePCMU,
			SequenceNumber: uint16(200 + i),
			Timestamp:      uint32(1000 + i*160),
			SSRC:           0xaaaa,
		}, []byte{byte(i)})
		_, err := sender.WriteTo(raw, sessSock.LocalAddr())
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	for want := 0; want < 3; want++ {
		got := recvWithTimeout(t, sender, time.Second)
		assert.Equal(t, []byte{byte(want)}, got.Payload)
	}
}

// scenario 6: inactivity watchdog fires call.bye() exactly once.
func TestEchoSessionInactivityTimeoutFiresBye(t *testing.T) {
	sender, sessSock := newLoopbackPair(t)
	require.NoError(t, sender.SetNonblock(true))

	loop := engine.NewGoroutineLoop()
	dispatcher := engine.NewGoroutineDispatcher()
	call := engine.NewGoroutineCall(nil)

	session := NewEchoSession("t6", loop, dispatcher, call, sessSock, sender.LocalAddr(),
		rtp.PCMU8000_20ms, dtmf.NewQueue(), EchoConfig{Delay: -1})

	// Swap the watchdog directly with a short period instead of the
	// package-level 10s constant, to keep this test fast.
	session.Start()
	session.watchdog.Stop()
	const period = 30 * time.Millisecond
	session.watchdog = NewWatchdog(dispatcher, period, func() {
		call.Bye()
	})
	defer session.Stop()

	// Pin the timing to exactly one silent period, not two: a
	// zero-packet session must fire on the first tick (t=period), so
	// waiting past a second tick (t=2*period) before asserting would
	// not catch a regression that delays the fire by a whole period.
	time.Sleep(period + period/2)
	assert.Equal(t, 0, call.ByeCount(), "must not fire before one full silent period elapses")

	time.Sleep(period)
	assert.Equal(t, 1, call.ByeCount(), "must fire once exactly one silent period has elapsed")

	time.Sleep(period)
	assert.Equal(t, 1, call.ByeCount(), "bye must fire exactly once")
}

func TestEchoSessionDTMFNegotiationFailureIncrementsCounter(t *testing.T) {
	sender, sessSock := newLoopbackPair(t)
	require.NoError(t, sender.SetNonblock(true))

	loop := engine.NewGoroutineLoop()
	dispatcher := engine.NewGoroutineDispatcher()
	call := engine.NewGoroutineCall(nil)

	dtmfQ := dtmf.NewQueue()
	session := NewEchoSession("t-dtmf-fail", loop, dispatcher, call, sessSock, sender.LocalAddr(),
		rtp.PCMU8000_20ms, dtmfQ, EchoConfig{Delay: 0})
	session.Start()
	defer session.Stop()

	before := testutil.ToFloat64(session.metrics.DTMFEventsFail)

	sym := dtmf.Symbol5
	dtmfQ.Push(dtmf.NewEvent(sym, 100, nil, nil, nil))

	raw := rtp.Build(rtp.BuildOptions{SequenceNumber: 1, Timestamp: 1000, SSRC: 0xaaaa}, []byte{1})
	_, err := sender.WriteTo(raw, sessSock.LocalAddr())
	require.NoError(t, err)
	raw2 := rtp.Build(rtp.BuildOptions{SequenceNumber: 2, Timestamp: 1160, SSRC: 0xaaaa}, []byte{2})
	_, err = sender.WriteTo(raw2, sessSock.LocalAddr())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(session.metrics.DTMFEventsFail) > before
	}, time.Second, time.Millisecond, "DTMFEventsFail must increment when no encoding was negotiated")
}

func TestEchoSessionRecvOnlyNeverSends(t *testing.T) {
	sender, sessSock := newLoopbackPair(t)
	require.NoError(t, sender.SetNonblock(true))

	loop := engine.NewGoroutineLoop()
	dispatcher := engine.NewGoroutineDispatcher()
	call := engine.NewGoroutineCall(nil)

	session := NewEchoSession("t-recvonly", loop, dispatcher, call, sessSock, sender.LocalAddr(),
		rtp.PCMU8000_20ms, dtmf.NewQueue(), EchoConfig{Delay: -1})
	session.Start()
	defer session.Stop()

	raw := rtp.Build(rtp.BuildOptions{SequenceNumber: 1, Timestamp: 1, SSRC: 1}, []byte{9})
	_, err := sender.WriteTo(raw, sessSock.LocalAddr())
	require.NoError(t, err)

	buf := make([]byte, 64)
	_, _, err = sender.ReadFrom(buf)
	assert.ErrorIs(t, err, rtp.ErrWouldBlock, "recv-only must never echo back")
}
