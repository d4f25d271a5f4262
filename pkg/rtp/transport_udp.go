package rtp

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// nonblockPollInterval bounds how long a non-blocking ReadFrom call
// waits for a datagram before reporting ErrWouldBlock, letting the
// caller's receive loop (pkg/engine.GoroutineLoop) re-poll. A real
// platform's non-blocking socket would return immediately; Go's
// net package has no such primitive, so a short read deadline is the
// idiomatic substitute.
const nonblockPollInterval = 10 * time.Millisecond

// ErrWouldBlock is returned by UDPSocket.ReadFrom when operating in
// non-blocking mode and no datagram is pending.
var ErrWouldBlock = errors.New("rtp: would block")

// UDPSocket is the concrete engine.Socket implementation for plain UDP
// transport.
type UDPSocket struct {
	conn      *net.UDPConn
	nonblock  atomic.Bool
	closeOnce atomic.Bool
}

// NewUDPSocket binds a UDP socket at localAddr and applies voice QoS
// tuning. dscp <= 0 skips DSCP marking.
func NewUDPSocket(localAddr string, dscp int) (*UDPSocket, error) {
	addr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, fmt.Errorf("rtp: resolve local addr %q: %w", localAddr, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("rtp: listen udp %q: %w", localAddr, err)
	}

	if err := applyVoiceSockOpts(conn, dscp); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rtp: apply voice socket options: %w", err)
	}

	return &UDPSocket{conn: conn}, nil
}

// ReadFrom implements engine.Socket. In non-blocking mode it returns
// ErrWouldBlock after nonblockPollInterval with no datagram pending.
func (s *UDPSocket) ReadFrom(buf []byte) (int, net.Addr, error) {
	if s.nonblock.Load() {
		s.conn.SetReadDeadline(time.Now().Add(nonblockPollInterval))
	} else {
		s.conn.SetReadDeadline(time.Time{})
	}

	n, addr, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return 0, nil, ErrWouldBlock
		}
		return 0, nil, err
	}
	return n, addr, nil
}

// WriteTo implements engine.Socket.
func (s *UDPSocket) WriteTo(buf []byte, addr net.Addr) (int, error) {
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		return 0, fmt.Errorf("rtp: WriteTo: address is %T, not *net.UDPAddr", addr)
	}
	return s.conn.WriteToUDP(buf, udpAddr)
}

// SetNonblock implements engine.Socket. Go's net package always
// integrates with the runtime netpoller; this toggles whether
// ReadFrom uses a short polling deadline (true) or blocks indefinitely
// (false), which is the reachable substitute for a platform
// non-blocking mode switch.
func (s *UDPSocket) SetNonblock(nonblocking bool) error {
	s.nonblock.Store(nonblocking)
	return nil
}

// Close implements engine.Socket. Idempotent.
func (s *UDPSocket) Close() error {
	if !s.closeOnce.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}

// LocalAddr returns the bound local address.
func (s *UDPSocket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}
