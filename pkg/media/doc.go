// Package media implements the two session controllers of the RTP
// media engine: an echo session (receive, optionally record, and echo
// payload back to the sender after a configurable delay) and a
// playback/record session (receive, and independently transmit from a
// file or payload callback at a fixed packetization interval). Both
// controllers share the same DTMF-injection and inactivity-watchdog
// machinery, and both report queued-event failures through
// DefaultDTMFFinalCallback.
//
// # Quick start
//
//	sock, _ := rtp.NewUDPSocket("0.0.0.0:4000", 0)
//	params := rtp.PCMU8000_20ms
//	dtmfQ := dtmf.NewQueue()
//	cfg := media.EchoConfig{Delay: 0}
//	sess := media.NewEchoSession("call-1", loop, dispatcher, call, sock, remoteAddr, params, dtmfQ, cfg)
//	sess.Start()
//	defer sess.Stop()
//
// PlaybackSession follows the same shape via NewPlaybackSession, taking
// separate receive and send sockets (which may be the same socket) and
// a PlaybackConfig naming a file or callback pair instead of a delay.
package media
