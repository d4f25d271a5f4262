package media

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/sipcore/rtpmedia/pkg/dtmf"
	"github.com/sipcore/rtpmedia/pkg/engine"
	"github.com/sipcore/rtpmedia/pkg/rtp"
)

// PlaybackSession pairs a symmetric (non-echoing) receive path with a
// periodic sender that transmits from a file or payload callback at a
// fixed packetization interval, with DTMF injection consulted on every
// tick before falling back to the configured payload source.
type PlaybackSession struct {
	id string

	loop       engine.Loop
	dispatcher engine.Dispatcher
	call       engine.Call

	recvSock *rtp.UDPSocket
	stream   *rtp.Stream
	cfg      PlaybackConfig
	dtmfQ    *dtmf.Queue
	dtmfE    *dtmf.Engine
	metrics  *rtp.Metrics

	watchdog  *Watchdog
	sendTimer engine.Timer

	mu               sync.Mutex
	started          bool
	recordFile       *os.File
	readFile         *os.File
	repeatsRemaining int

	log *slog.Logger
}

// NewPlaybackSession composes a playback/record session. recvSock and
// sendSock may be the same socket, and usually are.
func NewPlaybackSession(id string, loop engine.Loop, dispatcher engine.Dispatcher, call engine.Call,
	recvSock, sendSock *rtp.UDPSocket, remoteAddr net.Addr, params rtp.RtpParams, dtmfQ *dtmf.Queue, cfg PlaybackConfig) *PlaybackSession {

	state := rtp.NewSessionState(cfg.Repeat)
	stream := rtp.NewStream(sendSock, params, state)
	stream.SetRemoteAddr(remoteAddr)

	return &PlaybackSession{
		id:               id,
		loop:             loop,
		dispatcher:       dispatcher,
		call:             call,
		recvSock:         recvSock,
		stream:           stream,
		cfg:              cfg,
		dtmfQ:            dtmfQ,
		dtmfE:            dtmf.NewEngine(),
		metrics:          rtp.DefaultMetrics(),
		repeatsRemaining: state.RepeatsRemaining,
		log:              slog.Default().With("session", id, "mode", "playback"),
	}
}

// Start registers the receive socket and starts the send timer at the
// stream's packetization interval; the first tick fires immediately
// rather than waiting a full interval.
func (s *PlaybackSession) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.metrics.ActiveSessions.Inc()
	s.log.Debug("session started")

	s.loop.AddFD(s.recvSock, s.onPacket, "playback-rx")
	s.watchdog = NewWatchdog(s.dispatcher, InactivityTimeout, func() {
		s.metrics.WatchdogFires.Inc()
		s.log.Warn("inactivity watchdog fired", "error", newWatchdogError(s.id, InactivityTimeout))
		s.call.Bye()
	})
	s.sendTimer = s.dispatcher.AddTimer(0, s.stream.Params.Interval, s.onTick, "playback-tx")

	s.call.RegisterCleanup(func() { s.loop.DelFD(s.recvSock) })
	s.call.RegisterCleanup(func() { s.watchdog.Stop() })
	s.call.RegisterCleanup(func() { s.sendTimer.Stop() })
	s.call.RegisterCleanup(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.recordFile != nil {
			s.recordFile.Close()
			s.recordFile = nil
		}
		if s.readFile != nil {
			s.readFile.Close()
			s.readFile = nil
		}
	})
}

// Stop deregisters the socket and cancels the timers directly.
func (s *PlaybackSession) Stop() {
	s.loop.DelFD(s.recvSock)
	if s.watchdog != nil {
		s.watchdog.Stop()
	}
	if s.sendTimer != nil {
		s.sendTimer.Stop()
	}
	s.metrics.ActiveSessions.Dec()
	s.log.Debug("session stopped")
}

// SetRemoteAddr updates the send destination; nil means on hold:
// transmission is suppressed but timer ticks continue, so playback
// position keeps advancing while on hold.
func (s *PlaybackSession) SetRemoteAddr(addr net.Addr) {
	s.stream.SetRemoteAddr(addr)
}

func (s *PlaybackSession) onPacket(payload []byte, _ net.Addr) {
	pkt, err := rtp.Parse(payload)
	if err != nil {
		return
	}
	if !s.stream.State.Accept(pkt.Header.SequenceNumber, pkt.Header.Timestamp) {
		s.metrics.PacketsDropped.WithLabelValues("reorder").Inc()
		return
	}
	s.watchdog.Touch()
	s.metrics.PacketsReceived.Inc()
	s.metrics.BytesReceived.Add(float64(len(pkt.Payload)))
	s.recordPayload(pkt.Payload, pkt.Header.SequenceNumber, pkt.Header.Timestamp)
}

func (s *PlaybackSession) recordPayload(payload []byte, seq uint16, ts uint32) {
	if s.cfg.WriteToCallback != nil {
		s.cfg.WriteToCallback(payload, seq, ts)
		return
	}
	if s.cfg.WriteToFile == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordFile == nil {
		f, err := os.OpenFile(s.cfg.WriteToFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			mediaErr := newError(s.id, ErrorCodeRecordFileOpenFailed, s.cfg.WriteToFile, err)
			s.log.Error("record file open failed", "error", mediaErr)
			s.call.Bye()
			return
		}
		s.recordFile = f
	}
	s.recordFile.Write(payload)
}

// onTick advances wseq/timestamp, consults the DTMF engine, and
// otherwise obtains payload from the callback or file and sends it.
func (s *PlaybackSession) onTick() {
	seq := s.stream.State.NextWSeq()
	timestamp := s.stream.Params.SamplesPerPacket * uint32(seq)

	frame, ok, failed := s.dtmfE.Consult(s.dtmfQ, timestamp, s.stream.Params.SamplesPerPacket, s.stream.Params.SamplesPerPacket)
	if failed {
		s.metrics.DTMFEventsFail.Inc()
	}
	if ok {
		opts := rtp.BuildOptions{
			PayloadType:    rtp.PayloadType(frame.PayloadType),
			Marker:         true,
			SequenceNumber: seq,
			Timestamp:      frame.Timestamp,
			SSRC:           s.stream.SSRC,
		}
		if err := s.stream.SendFrame(opts, frame.Payload, frame.Repeat); err != nil {
			s.fatalSendError(err)
			return
		}
		s.metrics.PacketsSent.Add(float64(frame.Repeat))
		s.metrics.BytesSent.Add(float64(len(frame.Payload) * frame.Repeat))
		if frame.Encoding == dtmf.EncodingRFC2833 {
			s.metrics.DTMFEventsSent.WithLabelValues("rfc2833").Inc()
		} else {
			s.metrics.DTMFEventsSent.WithLabelValues("audio").Inc()
		}
		return
	}

	result, ok := s.nextPayload(seq)
	if !ok {
		s.finishPlayback()
		return
	}
	if result.Empty() {
		s.finishPlayback()
		return
	}

	payloadType := rtp.PayloadTypePCMU
	marker := false
	ts := timestamp
	if result.Overrides != nil {
		if result.Overrides.PayloadType != nil {
			payloadType = rtp.PayloadType(*result.Overrides.PayloadType)
		}
		if result.Overrides.Marker != nil {
			marker = *result.Overrides.Marker
		}
		if result.Overrides.Timestamp != nil {
			ts = *result.Overrides.Timestamp
		}
	} else if s.stream.Params.PayloadType != 0 {
		payloadType = s.stream.Params.PayloadType
	}

	opts := rtp.BuildOptions{
		PayloadType:    payloadType,
		Marker:         marker,
		SequenceNumber: seq,
		Timestamp:      ts,
		SSRC:           s.stream.SSRC,
	}
	if err := s.stream.SendFrame(opts, result.Bytes, 1); err != nil {
		s.fatalSendError(err)
		return
	}
	s.metrics.PacketsSent.Inc()
	s.metrics.BytesSent.Add(float64(len(result.Bytes)))
}

// nextPayload invokes the payload callback, or reads exactly
// SamplesPerPacket bytes from the file, retrying once across a repeat
// boundary on short read/EOF.
func (s *PlaybackSession) nextPayload(seq uint16) (PayloadResult, bool) {
	if s.cfg.ReadFromCallback != nil {
		return s.cfg.ReadFromCallback(seq), true
	}
	if s.cfg.ReadFromFile == "" {
		return PayloadResult{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, s.stream.Params.SamplesPerPacket)
	for attempt := 0; attempt < 2; attempt++ {
		if s.readFile == nil {
			f, err := os.Open(s.cfg.ReadFromFile)
			if err != nil {
				mediaErr := newError(s.id, ErrorCodeReadFileOpenFailed, s.cfg.ReadFromFile, err)
				s.log.Error("read file open failed", "error", mediaErr)
				return PayloadResult{}, false
			}
			s.readFile = f
		}

		n, err := s.readFile.Read(buf)
		if err == nil && n == len(buf) {
			return Bytes(buf), true
		}

		// Short read or EOF: close, consume one repeat, retry once
		// on the freshly reopened file.
		s.readFile.Close()
		s.readFile = nil

		if s.repeatsRemaining > 0 {
			s.repeatsRemaining--
		}
		if s.repeatsRemaining == 0 {
			return PayloadResult{}, false
		}
		// repeatsRemaining == -1 means forever; loop and reopen from
		// the start.
	}

	return PayloadResult{}, false
}

func (s *PlaybackSession) finishPlayback() {
	if s.sendTimer != nil {
		s.sendTimer.Stop()
	}
	s.log.Debug("playback exhausted")
	if s.cfg.CbDone != nil {
		s.cfg.CbDone()
	} else {
		s.call.Bye()
	}
}

func (s *PlaybackSession) fatalSendError(err error) {
	s.log.Error("send failed", "error", newError(s.id, ErrorCodeSocketSendFailed, "playback", err))
	s.call.Bye()
}
