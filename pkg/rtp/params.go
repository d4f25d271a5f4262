package rtp

import "time"

// RtpParams is the negotiated stream configuration handed to a session
// controller by the signaling layer, arriving pre-resolved since SDP
// negotiation happens outside this module.
type RtpParams struct {
	PayloadType      PayloadType
	ClockRate        uint32        // samples per second, e.g. 8000 for PCMU
	SamplesPerPacket uint32        // samples per outbound packet, e.g. 160 for 20ms@8kHz
	Interval         time.Duration // packetization interval, commonly 20ms
}

// PCMU8000_20ms is the common-case preset: G.711 mu-law, 8kHz, 20ms
// packetization, 160 samples per packet.
var PCMU8000_20ms = RtpParams{
	PayloadType:      PayloadTypePCMU,
	ClockRate:        8000,
	SamplesPerPacket: 160,
	Interval:         20 * time.Millisecond,
}

// TimestampAdvance reports how much an RTP timestamp advances per
// outbound packet under these params (one SamplesPerPacket tick).
func (p RtpParams) TimestampAdvance() uint32 {
	return p.SamplesPerPacket
}
