// Package rtp implements the wire-level RTP termination core of the
// media engine: header parsing and framing (RFC 3550), built on
// pion/rtp for the actual marshal/unmarshal, plus the session-local
// state (sequence/timestamp tracking, metrics, transport) the wire
// codec alone doesn't carry.
package rtp

import (
	"fmt"

	"github.com/pion/rtp"
)

// PayloadType identifies the RTP payload format, RFC 3551 Table 4/5.
type PayloadType uint8

// Telephony payload types this engine cares about.
const (
	PayloadTypePCMU    PayloadType = 0   // G.711 mu-law
	PayloadTypePCMA    PayloadType = 8   // G.711 A-law
	PayloadTypeG722    PayloadType = 9   // G.722
	PayloadTypeG729    PayloadType = 18  // G.729
	PayloadTypeRFC2833 PayloadType = 101 // telephony-event (dynamic, commonly 101)
)

// RtpHeader is the decoded view of one RTP packet's fixed and optional
// fields.
type RtpHeader struct {
	Version        uint8
	Padding        bool
	Extension      bool
	CSRCCount      uint8
	Marker         bool
	PayloadType    PayloadType
	SequenceNumber uint16
	Timestamp      uint32
	SSRC           uint32
	CSRC           []uint32
	ExtensionID    uint16 // valid only when Extension is true
	PaddingCount   uint8
}

// RtpPacket is a decoded datagram: the header view plus a slice over
// the payload with header, CSRCs, extension and padding removed.
type RtpPacket struct {
	Header  RtpHeader
	Payload []byte
	Raw     []byte // the original datagram bytes, unmodified
}

// ErrMalformedPacket is returned by Parse for inputs shorter than the
// fixed RTP header. The session layer treats this as a silent drop —
// Parse itself reports it so the caller can choose whether to log at
// high verbosity.
var ErrMalformedPacket = fmt.Errorf("rtp: packet shorter than fixed header")

// ErrUnsupportedVersion is returned by Parse when the packet's version
// field is not 2. Like ErrMalformedPacket, this is a silent drop at the
// session layer.
var ErrUnsupportedVersion = fmt.Errorf("rtp: unsupported RTP version")

// Parse decodes one inbound datagram's fixed header, CSRC list, and
// extension header. It does not apply the sequence filter or invoke a
// recorder — those require per-session state and are the caller's
// responsibility (see SessionState.Accept).
func Parse(raw []byte) (*RtpPacket, error) {
	if len(raw) < 12 {
		return nil, ErrMalformedPacket
	}
	if raw[0]>>6 != 2 {
		return nil, ErrUnsupportedVersion
	}

	var pkt rtp.Packet
	if err := pkt.Unmarshal(raw); err != nil {
		return nil, fmt.Errorf("rtp: unmarshal: %w", err)
	}

	h := RtpHeader{
		Version:        pkt.Version,
		Padding:        pkt.Padding,
		Extension:      pkt.Extension,
		CSRCCount:      uint8(len(pkt.CSRC)),
		Marker:         pkt.Marker,
		PayloadType:    PayloadType(pkt.PayloadType),
		SequenceNumber: pkt.SequenceNumber,
		Timestamp:      pkt.Timestamp,
		SSRC:           pkt.SSRC,
		CSRC:           append([]uint32(nil), pkt.CSRC...),
	}
	// Extension header content is parsed far enough to report its
	// profile id; this engine only needs to recognize the extension's
	// presence and skip past it, which pion/rtp already did.
	if pkt.Extension {
		h.ExtensionID = pkt.ExtensionProfile
	}
	if pkt.Padding && len(raw) > 0 {
		h.PaddingCount = raw[len(raw)-1]
	}

	return &RtpPacket{
		Header:  h,
		Payload: append([]byte(nil), pkt.Payload...),
		Raw:     raw,
	}, nil
}

// BuildOptions configures Build's output header. CSRC, extension, and
// padding are never emitted by this engine — only the fixed 12-byte
// header plus payload is produced.
type BuildOptions struct {
	PayloadType    PayloadType
	Marker         bool
	SequenceNumber uint16
	Timestamp      uint32
	SSRC           uint32
}

// Build frames one outbound RTP datagram: a 12-byte header (V=2, P=0,
// X=0, CC=0) followed by payload, with no CSRC, extension, or padding.
func Build(opts BuildOptions, payload []byte) []byte {
	pkt := rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			Marker:         opts.Marker,
			PayloadType:    uint8(opts.PayloadType) & 0x7F,
			SequenceNumber: opts.SequenceNumber,
			Timestamp:      opts.Timestamp,
			SSRC:           opts.SSRC,
		},
		Payload: payload,
	}

	// rtp.Packet.Marshal never fails for a header this simple; a
	// failure here would indicate a pion/rtp internal invariant
	// violation, not a caller error, so we don't propagate it.
	out, _ := pkt.Marshal()
	return out
}
