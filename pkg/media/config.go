package media

// EchoConfig is the echo session's configuration surface.
type EchoConfig struct {
	// Delay: <0 recv-only, 0 immediate echo, n>0 echo after n packets
	// held.
	Delay int

	// WriteTo records inbound payload: a filename, a callback, or
	// neither.
	WriteToFile     string
	WriteToCallback RecordCallback
}

// PlaybackConfig is the playback/record session's configuration
// surface.
type PlaybackConfig struct {
	WriteToFile     string
	WriteToCallback RecordCallback

	ReadFromFile     string
	ReadFromCallback PayloadCallback

	// Repeat: <=0 infinite, >0 that many passes over the file.
	Repeat int

	// CbDone is invoked when playback is exhausted or a callback
	// returns an empty payload. If nil, the session's Call.Bye() is
	// used.
	CbDone func()
}

// RecordCallback receives one inbound payload with its RTP sequence
// and timestamp.
type RecordCallback func(payload []byte, seq uint16, timestamp uint32)
