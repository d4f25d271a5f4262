//go:build linux

package rtp

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// setVoiceSockOpts applies Linux socket tuning for low-latency voice
// traffic: priority, busy-poll, buffer sizes, and DSCP marking on both
// IPv4 and IPv6. Non-fatal sockopts that a sandboxed or containerized
// process may be denied are attempted and ignored on failure.
func setVoiceSockOpts(fd uintptr, dscp int) error {
	ifd := int(fd)

	_ = syscall.SetsockoptInt(ifd, syscall.SOL_SOCKET, unix.SO_PRIORITY, 6)
	_ = syscall.SetsockoptInt(ifd, syscall.SOL_SOCKET, unix.SO_BUSY_POLL, 50)

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
	}

	return nil
}
