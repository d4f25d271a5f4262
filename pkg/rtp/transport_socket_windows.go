//go:build windows

package rtp

import (
	"syscall"
)

// setVoiceSockOpts applies Windows socket tuning for low-latency voice
// traffic. Windows frequently requires administrative privileges to
// honor IP_TOS; a failure there is not treated as fatal.
func setVoiceSockOpts(fd uintptr, dscp int) error {
	handle := syscall.Handle(fd)

	if err := syscall.SetsockoptInt(handle, syscall.SOL_SOCKET, syscall.SO_RCVBUF, VoiceSocketBuffers); err != nil {
		return err
	}
	if err := syscall.SetsockoptInt(handle, syscall.SOL_SOCKET, syscall.SO_SNDBUF, VoiceSocketBuffers); err != nil {
		return err
	}

	if dscp > 0 {
		tos := dscp << 2
		_ = syscall.SetsockoptInt(handle, syscall.IPPROTO_IP, syscall.IP_TOS, tos)
	}

	return nil
}
