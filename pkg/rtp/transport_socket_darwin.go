//go:build darwin

package rtp

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// setVoiceSockOpts applies macOS socket tuning for low-latency voice
// traffic. macOS has no SO_PRIORITY; SO_TRAFFIC_CLASS is the closest
// analogue and is set to the voice traffic class for EF-marked DSCP.
func setVoiceSockOpts(fd uintptr, dscp int) error {
	ifd := int(fd)

	_ = syscall.SetsockoptInt(ifd, syscall.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)

	if err := syscall.SetsockoptInt(ifd, syscall.SOL_SOCKET, syscall.SO_RCVBUF, VoiceSocketBuffers); err != nil {
		return err
	}
	if err := syscall.SetsockoptInt(ifd, syscall.SOL_SOCKET, syscall.SO_SNDBUF, VoiceSocketBuffers); err != nil {
		return err
	}

	if dscp > 0 {
		tos := dscp << 2
		_ = syscall.SetsockoptInt(ifd, syscall.IPPROTO_IP, syscall.IP_TOS, tos)
		_ = syscall.SetsockoptInt(ifd, syscall.IPPROTO_IPV6, unix.IPV6_TCLASS, tos)

		const soTrafficClass = 0x1001 // SO_TRAFFIC_CLASS, not exposed by golang.org/x/sys/unix
		_ = syscall.SetsockoptInt(ifd, syscall.SOL_SOCKET, soTrafficClass, trafficClassFor(dscp))
	}

	return nil
}

// trafficClassFor maps a DSCP value onto macOS's SO_TRAFFIC_CLASS
// values (net/if_var traffic classes).
func trafficClassFor(dscp int) int {
	const (
		socTCVO = 3 // voice
		socTCVI = 2 // video
		socTCBE = 0 // best effort
	)
	switch dscp {
	case DSCPExpeditedForwarding:
		return socTCVO
	case DSCPAssuredForwarding:
		return socTCVI
	default:
		return socTCBE
	}
}
