package rtp

import (
	"fmt"
	"net"
)

// DSCP values for QoS marking (RFC 4594), applied to the media socket
// so the interactive audio stream gets priority over best-effort
// traffic when the network path honors it.
const (
	DSCPExpeditedForwarding = 46
	DSCPAssuredForwarding   = 34
	DSCPBestEffort          = 0
)

// VoiceSocketBuffers sizes the kernel send/receive buffers generously
// enough to absorb jitter without the sender blocking under load —
// 64KB is a few seconds of G.711 at 20ms packetization.
const VoiceSocketBuffers = 65535

// applyVoiceSockOpts tunes a UDP socket for low-latency voice traffic:
// buffer sizes and DSCP marking, delegating the actual syscalls to the
// platform-specific implementation in transport_socket_*.go. dscp <= 0
// leaves DSCP unmarked.
func applyVoiceSockOpts(conn *net.UDPConn, dscp int) error {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("rtp: get raw socket: %w", err)
	}

	var sockErr error
	err = rawConn.Control(func(fd uintptr) {
		sockErr = setVoiceSockOpts(fd, dscp)
	})
	if err != nil {
		return fmt.Errorf("rtp: control socket: %w", err)
	}
	return sockErr
}
