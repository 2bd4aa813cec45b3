package stream

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"
)

// JPEG frame delimiters inside the multipart stream.
var (
	jpegStart = []byte{0xff, 0xd8}
	jpegEnd   = []byte{0xff, 0xd9}
)

// MJPEG reconnect pacing: a quick retry first, then a slower one while the
// camera board reboots.
const (
	reconnectShortDelay = 300 * time.Millisecond
	reconnectLongDelay  = 700 * time.Millisecond
	defaultChunkSize    = 2048
	defaultHTTPTimeout  = 10 * time.Second
)

// userAgent identifies the bridge to the camera firmware.
const userAgent = "firebridge/1.0"

// MJPEGSource reads frames from an ESP32-style multipart MJPEG endpoint.
// It scans the byte stream for JPEG start/end markers rather than trusting
// part boundaries, and reconnects automatically on any network or decode
// error.
type MJPEGSource struct {
	url       string
	client    *http.Client
	chunkSize int

	mu     sync.Mutex
	resp   *http.Response
	buf    []byte
	chunk  []byte
	closed atomic.Bool
	opened bool
}

// NewMJPEGSource creates a source for the given stream URL.
func NewMJPEGSource(url string) *MJPEGSource {
	return &MJPEGSource{
		url: url,
		client: &http.Client{
			Timeout: 0, // streaming response, no overall deadline
			Transport: &http.Transport{
				ResponseHeaderTimeout: defaultHTTPTimeout,
			},
		},
		chunkSize: defaultChunkSize,
	}
}

// Open connects to the stream endpoint.
func (s *MJPEGSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connect(); err != nil {
		return err
	}
	s.opened = true
	s.closed.Store(false)
	return nil
}

// connect issues the streaming GET. Caller holds the lock.
func (s *MJPEGSource) connect() error {
	req, err := http.NewRequest(http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "multipart/x-mixed-replace")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("open stream %s: %w", s.url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("open stream %s: unexpected status %d", s.url, resp.StatusCode)
	}

	s.resp = resp
	s.buf = s.buf[:0]
	if s.chunk == nil {
		s.chunk = make([]byte, s.chunkSize)
	}
	return nil
}

// disconnect drops the current response. Caller holds the lock.
func (s *MJPEGSource) disconnect() {
	if s.resp != nil {
		s.resp.Body.Close()
		s.resp = nil
	}
}

// Close terminates the stream connection. Closing the response body
// unblocks a reader stuck inside ReadFrame.
func (s *MJPEGSource) Close() error {
	s.closed.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnect()
	s.opened = false
	return nil
}

// ReadFrame blocks until one complete JPEG has been received and decoded.
// Network and decode errors trigger a reconnect; the call only fails once
// the source has been closed.
func (s *MJPEGSource) ReadFrame() (*gocv.Mat, error) {
	for {
		if s.closed.Load() {
			return nil, ErrSourceClosed
		}

		mat, retry, err := s.readChunk()
		if err != nil {
			return nil, err
		}
		if mat != nil {
			return mat, nil
		}
		if retry > 0 {
			time.Sleep(retry)
		}
	}
}

// readChunk performs one locked step of the read loop: connect if needed,
// pull one chunk, and try to extract a frame. It returns a retry delay
// when the connection dropped and needs to be re-established.
func (s *MJPEGSource) readChunk() (*gocv.Mat, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		return nil, 0, ErrSourceClosed
	}

	if s.resp == nil {
		if err := s.connect(); err != nil {
			return nil, reconnectLongDelay, nil
		}
	}

	n, err := s.resp.Body.Read(s.chunk)
	if n > 0 {
		s.buf = append(s.buf, s.chunk[:n]...)
		if mat := s.extractFrame(); mat != nil {
			return mat, 0, nil
		}
	}
	if err != nil {
		s.disconnect()
		return nil, reconnectShortDelay, nil
	}
	return nil, 0, nil
}

// extractFrame scans the buffer for one complete JPEG and decodes it.
// Caller holds the lock. Returns nil when no complete frame is buffered
// yet or the candidate bytes fail to decode.
func (s *MJPEGSource) extractFrame() *gocv.Mat {
	start := bytes.Index(s.buf, jpegStart)
	end := bytes.Index(s.buf, jpegEnd)
	if start < 0 || end < 0 || end <= start {
		return nil
	}

	jpg := make([]byte, end+2-start)
	copy(jpg, s.buf[start:end+2])
	s.buf = s.buf[:copy(s.buf, s.buf[end+2:])]

	mat, err := gocv.IMDecode(jpg, gocv.IMReadColor)
	if err != nil {
		return nil
	}
	if mat.Empty() {
		mat.Close()
		return nil
	}
	return &mat
}
