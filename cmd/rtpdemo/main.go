package main

import (
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sipcore/rtpmedia/pkg/dtmf"
	"github.com/sipcore/rtpmedia/pkg/engine"
	"github.com/sipcore/rtpmedia/pkg/media"
	"github.com/sipcore/rtpmedia/pkg/rtp"
)

// rtpdemo wires one echo session and one playback session onto the
// reference goroutine-based engine implementation, standing in for the
// signaling layer that would normally own socket binding, call
// lifecycle, and DTMF negotiation.
func main() {
	var (
		echoAddr     = flag.String("echo-listen", "127.0.0.1:15004", "Local address for the echo session")
		echoRemote   = flag.String("echo-remote", "", "Remote address to echo to (empty: wait for first inbound packet's source)")
		playAddr     = flag.String("play-listen", "127.0.0.1:15006", "Local address for the playback session")
		playRemote   = flag.String("play-remote", "", "Remote address to send playback to")
		readFromFile = flag.String("play-file", "", "File to stream as playback payload (raw PCMU)")
		delay        = flag.Int("echo-delay", 0, "Echo delay, in packets")
		repeat       = flag.Int("play-repeat", 1, "Playback repeat count, <=0 for infinite")
		sendDTMF     = flag.String("echo-dtmf", "", "Digit string to queue as RFC 2833 DTMF on the echo session, e.g. \"123#\"")
	)
	flag.Parse()

	slog.SetLogLoggerLevel(slog.LevelDebug)

	loop := engine.NewGoroutineLoop()
	dispatcher := engine.NewGoroutineDispatcher()

	echoCall := engine.NewGoroutineCall(func() { log.Println("echo session ended") })
	playCall := engine.NewGoroutineCall(func() { log.Println("playback session ended") })

	echoSock, err := rtp.NewUDPSocket(*echoAddr, 0)
	if err != nil {
		log.Fatalf("echo socket: %v", err)
	}
	playSock, err := rtp.NewUDPSocket(*playAddr, 0)
	if err != nil {
		log.Fatalf("playback socket: %v", err)
	}

	var echoRemoteAddr net.Addr
	if *echoRemote != "" {
		echoRemoteAddr, err = net.ResolveUDPAddr("udp", *echoRemote)
		if err != nil {
			log.Fatalf("resolve echo-remote: %v", err)
		}
	}
	var playRemoteAddr net.Addr
	if *playRemote != "" {
		playRemoteAddr, err = net.ResolveUDPAddr("udp", *playRemote)
		if err != nil {
			log.Fatalf("resolve play-remote: %v", err)
		}
	}

	echoDTMF := dtmf.NewQueue()
	echoSession := media.NewEchoSession("echo-demo", loop, dispatcher, echoCall,
		echoSock, echoRemoteAddr, rtp.PCMU8000_20ms, echoDTMF, media.EchoConfig{Delay: *delay})
	echoSession.Start()

	if *sendDTMF != "" {
		const dtmfDuration = 100 * time.Millisecond
		rfc2833Type := uint8(rtp.PayloadTypeRFC2833)
		for _, c := range []byte(*sendDTMF) {
			sym, err := dtmf.ParseSymbol(c)
			if err != nil {
				log.Printf("skipping DTMF digit %q: %v", c, err)
				continue
			}
			cb := media.DefaultDTMFFinalCallback("echo-demo", sym.String(), dtmfDuration, slog.Default())
			echoDTMF.Push(dtmf.NewEvent(sym, uint32(dtmfDuration.Milliseconds()), &rfc2833Type, nil, cb))
		}
	}

	playDTMF := dtmf.NewQueue()
	playSession := media.NewPlaybackSession("playback-demo", loop, dispatcher, playCall,
		playSock, playSock, playRemoteAddr, rtp.PCMU8000_20ms, playDTMF,
		media.PlaybackConfig{ReadFromFile: *readFromFile, Repeat: *repeat})
	playSession.Start()

	log.Printf("echo session listening on %s, playback session listening on %s", *echoAddr, *playAddr)
	log.Println("press ctrl-c to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	echoSession.Stop()
	playSession.Stop()
	echoCall.RunCleanups()
	playCall.RunCleanups()
}
