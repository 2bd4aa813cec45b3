package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mass60/firebridge/internal/pipeline"
)

// PreviewHandler serves the annotated pipeline frames as an MJPEG stream.
type PreviewHandler struct {
	frames *pipeline.FrameBuffer
}

// NewPreviewHandler creates a handler over the given frame buffer.
func NewPreviewHandler(frames *pipeline.FrameBuffer) *PreviewHandler {
	return &PreviewHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to the client until it disconnects.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var lastSeq uint64
	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		jpeg, seq := h.frames.Latest()
		if jpeg == nil || seq == lastSeq {
			time.Sleep(33 * time.Millisecond)
			continue
		}
		lastSeq = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
