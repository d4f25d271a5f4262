package media

// PayloadCallback supplies outbound payload for one send tick, given
// the outbound sequence number. It returns a PayloadResult, which may
// simply be bytes or override the outbound payload type, marker, and
// timestamp.
type PayloadCallback func(seq uint16) PayloadResult

// PayloadResult is either a plain-bytes variant or a variant that
// overrides framing fields. Exactly one of these shapes is produced by
// the constructors below; Overrides is nil for the plain-bytes case.
type PayloadResult struct {
	Bytes     []byte
	Overrides *PayloadOverrides
}

// PayloadOverrides lets a PayloadCallback take control of the framing
// fields a session controller would otherwise choose itself.
type PayloadOverrides struct {
	PayloadType *uint8
	Marker      *bool
	Timestamp   *uint32
}

// Bytes builds a plain-bytes PayloadResult.
func Bytes(b []byte) PayloadResult {
	return PayloadResult{Bytes: b}
}

// WithOverrides builds a PayloadResult that overrides one or more
// framing fields alongside its payload bytes.
func WithOverrides(b []byte, overrides PayloadOverrides) PayloadResult {
	return PayloadResult{Bytes: b, Overrides: &overrides}
}

// Empty reports whether the result's payload is empty. An empty
// payload from a PayloadCallback ends the playback session via
// PlaybackConfig.CbDone.
func (r PayloadResult) Empty() bool {
	return len(r.Bytes) == 0
}
