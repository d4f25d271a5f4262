package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParseRoundTrip(t *testing.T) {
	opts := BuildOptions{
		PayloadType:    PayloadTypePCMU,
		Marker:         true,
		SequenceNumber: 4242,
		Timestamp:      123456,
		SSRC:           0xdeadbeef,
	}
	payload := []byte{1, 2, 3, 4, 5}

	raw := Build(opts, payload)
	pkt, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, uint8(2), pkt.Header.Version)
	assert.Equal(t, opts.Marker, pkt.Header.Marker)
	assert.Equal(t, opts.PayloadType, pkt.Header.PayloadType)
	assert.Equal(t, opts.SequenceNumber, pkt.Header.SequenceNumber)
	assert.Equal(t, opts.Timestamp, pkt.Header.Timestamp)
	assert.Equal(t, opts.SSRC, pkt.Header.SSRC)
	assert.Equal(t, payload, pkt.Payload)
}

func TestParseRejectsShortPacket(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformedPacket)
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	raw := Build(BuildOptions{}, []byte{0})
	raw[0] = (1 << 6) | (raw[0] & 0x3f) // force version 1
	_, err := Parse(raw)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestBuildNeverSetsPaddingExtensionCSRC(t *testing.T) {
	raw := Build(BuildOptions{SequenceNumber: 1, Timestamp: 1, SSRC: 1}, []byte{0xAA})
	pkt, err := Parse(raw)
	require.NoError(t, err)
	assert.False(t, pkt.Header.Padding)
	assert.False(t, pkt.Header.Extension)
	assert.Equal(t, uint8(0), pkt.Header.CSRCCount)
}
