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

// EchoSession receives RTP, optionally records it, and echoes the
// received payload back to the sender after a configurable packet
// delay, with DTMF injection taking priority over echo on any tick
// where the DTMF engine has a pending event.
type EchoSession struct {
	id string

	loop       engine.Loop
	dispatcher engine.Dispatcher
	call       engine.Call

	sock   *rtp.UDPSocket
	stream *rtp.Stream
	cfg    EchoConfig
	dtmfQ  *dtmf.Queue
	dtmfE  *dtmf.Engine
	metrics *rtp.Metrics

	watchdog *Watchdog

	mu         sync.Mutex
	started    bool
	recordFile *os.File

	log *slog.Logger
}

// NewEchoSession composes an echo session over sock, with remote
// address and DTMF queue wired in by the caller (the signaling layer,
// through pkg/engine). sock is shared for both receive and send unless
// the caller later repoints the destination with SetRemoteAddr.
func NewEchoSession(id string, loop engine.Loop, dispatcher engine.Dispatcher, call engine.Call,
	sock *rtp.UDPSocket, remoteAddr net.Addr, params rtp.RtpParams, dtmfQ *dtmf.Queue, cfg EchoConfig) *EchoSession {

	state := rtp.NewSessionState(0)
	stream := rtp.NewStream(sock, params, state)
	stream.SetRemoteAddr(remoteAddr)

	return &EchoSession{
		id:         id,
		loop:       loop,
		dispatcher: dispatcher,
		call:       call,
		sock:       sock,
		stream:     stream,
		cfg:        cfg,
		dtmfQ:      dtmfQ,
		dtmfE:      dtmf.NewEngine(),
		metrics:    rtp.DefaultMetrics(),
		log:        slog.Default().With("session", id, "mode", "echo"),
	}
}

// Start registers the receive socket with the event loop and arms the
// inactivity watchdog.
func (s *EchoSession) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.metrics.ActiveSessions.Inc()
	s.log.Debug("session started")

	s.loop.AddFD(s.sock, s.onPacket, "echo-rx")
	s.watchdog = NewWatchdog(s.dispatcher, InactivityTimeout, func() {
		s.metrics.WatchdogFires.Inc()
		s.log.Warn("inactivity watchdog fired", "error", newWatchdogError(s.id, InactivityTimeout))
		s.call.Bye()
	})

	s.call.RegisterCleanup(func() { s.loop.DelFD(s.sock) })
	s.call.RegisterCleanup(func() { s.watchdog.Stop() })
	s.call.RegisterCleanup(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.recordFile != nil {
			s.recordFile.Close()
			s.recordFile = nil
		}
	})
}

// Stop deregisters the socket and cancels the watchdog directly,
// without waiting for the call's own teardown to reach the cleanup
// list — useful for tests that don't run a full call lifecycle.
func (s *EchoSession) Stop() {
	s.loop.DelFD(s.sock)
	if s.watchdog != nil {
		s.watchdog.Stop()
	}
	s.metrics.ActiveSessions.Dec()
	s.log.Debug("session stopped")
}

// SetRemoteAddr updates the echo destination; nil means on hold.
func (s *EchoSession) SetRemoteAddr(addr net.Addr) {
	s.stream.SetRemoteAddr(addr)
}

func (s *EchoSession) onPacket(payload []byte, _ net.Addr) {
	pkt, err := rtp.Parse(payload)
	if err != nil {
		// Malformed or unsupported-version packet: silent drop.
		return
	}

	if !s.stream.State.Accept(pkt.Header.SequenceNumber, pkt.Header.Timestamp) {
		s.metrics.PacketsDropped.WithLabelValues("reorder").Inc()
		s.log.Debug("dropped reordered/duplicate packet", "seq", pkt.Header.SequenceNumber)
		return
	}
	s.watchdog.Touch()
	s.metrics.PacketsReceived.Inc()
	s.metrics.BytesReceived.Add(float64(len(pkt.Payload)))

	s.recordPayload(pkt.Payload, pkt.Header.SequenceNumber, pkt.Header.Timestamp)

	ltdiff, haveLTDiff := s.stream.State.LTDiff()
	if s.dtmfQ.Len() > 0 && haveLTDiff {
		s.emitDTMF(pkt.Header.Timestamp, ltdiff)
		return
	}

	s.echo(pkt.Payload, pkt.Header)
}

func (s *EchoSession) recordPayload(payload []byte, seq uint16, ts uint32) {
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
			// Record file open failure is fatal to the session.
			mediaErr := newError(s.id, ErrorCodeRecordFileOpenFailed, s.cfg.WriteToFile, err)
			s.log.Error("record file open failed", "error", mediaErr)
			s.call.Bye()
			return
		}
		s.recordFile = f
	}
	s.recordFile.Write(payload)
}

func (s *EchoSession) emitDTMF(nowTimestamp, tdiff uint32) {
	frame, ok, failed := s.dtmfE.Consult(s.dtmfQ, nowTimestamp, tdiff, s.stream.Params.SamplesPerPacket)
	if failed {
		s.metrics.DTMFEventsFail.Inc()
	}
	if !ok {
		return
	}
	// DTMF packets carry the session's own monotonic sequence, unlike
	// echoed packets which forward the inbound seq unchanged — a DTMF
	// burst isn't a reply to any one inbound packet.
	s.sendNewFrame(frame.PayloadType, frame.Marker, frame.Timestamp, frame.Payload, frame.Repeat)
	if frame.Encoding == dtmf.EncodingRFC2833 {
		s.metrics.DTMFEventsSent.WithLabelValues("rfc2833").Inc()
	} else {
		s.metrics.DTMFEventsSent.WithLabelValues("audio").Inc()
	}
}

func (s *EchoSession) echo(payload []byte, h rtp.RtpHeader) {
	if s.cfg.Delay < 0 {
		return // recv-only: negative delay disables echo entirely
	}

	toSend := s.stream.State.PushDelay(rtp.DelayedPacket{
		Payload:     payload,
		Seq:         h.SequenceNumber,
		Timestamp:   h.Timestamp,
		PayloadType: h.PayloadType,
		Marker:      h.Marker,
	}, s.cfg.Delay)

	for _, p := range toSend {
		// Echo forwards the inbound seq/timestamp unchanged; only the
		// SSRC changes to this session's own.
		opts := rtp.BuildOptions{
			PayloadType:    p.PayloadType,
			Marker:         p.Marker,
			SequenceNumber: p.Seq,
			Timestamp:      p.Timestamp,
			SSRC:           s.stream.SSRC,
		}
		if err := s.stream.SendFrame(opts, p.Payload, 1); err != nil {
			s.log.Error("echo send failed", "error", newError(s.id, ErrorCodeSocketSendFailed, "echo", err))
			s.call.Bye()
			return
		}
		s.metrics.PacketsSent.Inc()
		s.metrics.BytesSent.Add(float64(len(p.Payload)))
	}
}

// sendNewFrame sends a packet framed with this session's own
// monotonic outbound sequence — used for DTMF injection, which is not
// an echo of any particular inbound packet.
func (s *EchoSession) sendNewFrame(payloadType uint8, marker bool, timestamp uint32, payload []byte, repeat int) {
	opts := rtp.BuildOptions{
		PayloadType:    rtp.PayloadType(payloadType),
		Marker:         marker,
		SequenceNumber: s.stream.State.NextWSeq(),
		Timestamp:      timestamp,
		SSRC:           s.stream.SSRC,
	}
	if err := s.stream.SendFrame(opts, payload, repeat); err != nil {
		s.log.Error("send failed", "error", newError(s.id, ErrorCodeSocketSendFailed, "dtmf", err))
		s.call.Bye()
		return
	}
	s.metrics.PacketsSent.Add(float64(repeat))
	s.metrics.BytesSent.Add(float64(len(payload) * repeat))
}
