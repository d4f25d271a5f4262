package rtp

import (
	"net"
)

// Stream bundles everything a session controller needs to exchange
// RTP with one socket pair: the transport socket, the negotiated
// parameters, the remote address (nil when on hold), and the
// per-socket SessionState. This engine has no RTCP, no source manager,
// and no multi-codec negotiation; what remains is SSRC-stable framing
// over one socket, which Stream exists to hold.
type Stream struct {
	Socket     *UDPSocket
	Params     RtpParams
	SSRC       uint32
	State      *SessionState
	remoteAddr net.Addr
}

// NewStream creates a Stream with the engine's stable default SSRC;
// the SSRC never changes for the life of the session.
func NewStream(sock *UDPSocket, params RtpParams, state *SessionState) *Stream {
	return &Stream{
		Socket: sock,
		Params: params,
		SSRC:   DefaultSSRC,
		State:  state,
	}
}

// SetRemoteAddr updates the stream's destination. A nil addr means
// "on hold": SendFrame becomes a no-op until it is set again.
func (s *Stream) SetRemoteAddr(addr net.Addr) {
	s.remoteAddr = addr
}

// RemoteAddr reports the current destination, or nil if on hold.
func (s *Stream) RemoteAddr() net.Addr {
	return s.remoteAddr
}

// SendFrame builds one outbound RTP datagram and writes it repeat
// times — used for DTMF end-packets, sent as identical duplicate
// datagrams for loss resilience. A nil remote address is treated as
// "on hold" and the send is silently skipped.
func (s *Stream) SendFrame(opts BuildOptions, payload []byte, repeat int) error {
	if s.remoteAddr == nil {
		return nil
	}
	if repeat < 1 {
		repeat = 1
	}

	datagram := Build(opts, payload)
	for i := 0; i < repeat; i++ {
		if _, err := s.Socket.WriteTo(datagram, s.remoteAddr); err != nil {
			return newRTPError(ErrCodeSocketSend, "send to "+s.remoteAddr.String(),
				opts.SSRC, opts.SequenceNumber, opts.Timestamp, err)
		}
	}
	return nil
}
