package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/akamensky/argparse"

	"github.com/mass60/firebridge/internal/detector"
	"github.com/mass60/firebridge/internal/pipeline"
	"github.com/mass60/firebridge/internal/server"
	"github.com/mass60/firebridge/internal/store"
	"github.com/mass60/firebridge/internal/stream"
)

func main() {
	parser := argparse.NewParser("firebridge", "Gesture and expression driven fireworks parameter bridge")
	source := parser.String("s", "source", &argparse.Options{Help: "Frame source: webcam device index or MJPEG URL", Default: "0"})
	mode := parser.Selector("m", "mode", []string{"gesture", "expression"}, &argparse.Options{Help: "Detection mode", Default: "gesture"})
	host := parser.String("", "host", &argparse.Options{Help: "Bind address for the HTTP/WebSocket server", Default: "0.0.0.0"})
	port := parser.Int("p", "port", &argparse.Options{Help: "Server port", Default: 8765})
	wsPath := parser.String("", "ws-path", &argparse.Options{Help: "WebSocket path clients subscribe to", Default: "/fireworks"})
	rate := parser.Float("r", "rate", &argparse.Options{Help: "Max emitted records per second (0 = mode default)", Default: 0.0})
	record := parser.Flag("", "record", &argparse.Options{Help: "Record emitted parameters to the session store", Default: false})
	dbPath := parser.String("", "db", &argparse.Options{Help: "Session database path", Default: ""})
	preview := parser.Flag("", "preview", &argparse.Options{Help: "Serve the annotated preview stream at /api/preview", Default: false})
	mock := parser.Flag("", "mock", &argparse.Options{Help: "Use the mock detector instead of MediaPipe", Default: false})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	fmt.Println("Firebridge - gesture driven fireworks")

	cfg := pipeline.Config{
		Mode:   pipeline.Mode(*mode),
		Source: newSource(*source),
		Rate:   *rate,
	}

	det := newDetector(*mode, *mock)
	if closer, ok := det.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	if *mode == "gesture" {
		cfg.Hands = det.(detector.HandDetector)
	} else {
		cfg.Faces = det.(detector.FaceDetector)
	}

	var st *store.Store
	if *record {
		path := *dbPath
		if path == "" {
			path = defaultDBPath()
		}
		var err error
		st, err = store.New(path)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		defer st.Close()

		recorder, err := pipeline.NewRecorder(st, cfg.Mode, *source)
		if err != nil {
			log.Fatalf("Failed to start recording session: %v", err)
		}
		defer recorder.Close()
		cfg.Recorder = recorder
	}

	if *preview {
		cfg.Preview = pipeline.NewFrameBuffer()
	}

	pipe, err := pipeline.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	hub := server.NewHub()
	go hub.Run(pipe.Records())

	srv := server.New(server.Config{
		WSPath:  *wsPath,
		Hub:     hub,
		Store:   st,
		Preview: cfg.Preview,
	})

	addr := fmt.Sprintf("%s:%d", *host, *port)
	go func() {
		fmt.Printf("Serving on %s (records at ws://%s%s)\n", addr, addr, *wsPath)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := pipe.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Println("Shutting down...")
	pipe.Stop()
	<-hub.Done()
}

// newSource picks the frame source from the flag value: an integer selects
// a local webcam device, anything with a scheme is treated as an MJPEG URL.
func newSource(value string) stream.Source {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return stream.NewMJPEGSource(value)
	}

	deviceID, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid source %q: expected device index or MJPEG URL", value)
	}
	return stream.NewWebcam(deviceID)
}

// newDetector builds the MediaPipe detector, falling back to the mock when
// the Python landmark service is unavailable.
func newDetector(mode string, forceMock bool) any {
	dmode := detector.ModeHands
	if mode == "expression" {
		dmode = detector.ModeFace
	}

	if !forceMock {
		det, err := detector.NewMediaPipeDetector(detector.DefaultConfig(), dmode)
		if err == nil {
			return det
		}
		log.Printf("MediaPipe detector unavailable (%v), using mock detector", err)
	}

	return detector.NewMockDetector()
}

// defaultDBPath returns ~/.firebridge/firebridge.db, creating the directory.
func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dir := filepath.Join(homeDir, ".firebridge")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	return filepath.Join(dir, "firebridge.db")
}
