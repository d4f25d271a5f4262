package rtp

import (
	"crypto/rand"
	"encoding/binary"
)

// randomUint16 returns a cryptographically random u16, used to seed
// the outbound sequence number on first use.
func randomUint16() uint16 {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing indicates a broken platform entropy
		// source; fall back to a fixed, clearly-non-cryptographic
		// seed rather than panicking the session.
		return 0x4242
	}
	return binary.BigEndian.Uint16(b[:])
}

// DefaultSSRC is the stable outbound SSRC this engine emits. A fixed
// value is sufficient since each session owns one socket pair and
// never needs to disambiguate multiple sources.
const DefaultSSRC uint32 = 0x1234
