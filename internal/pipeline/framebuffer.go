package pipeline

import "sync"

// FrameBuffer holds the most recent annotated JPEG frame for the preview
// endpoint. Writers replace the frame, readers get the latest one plus a
// sequence number so they can wait for a fresh frame.
type FrameBuffer struct {
	mu   sync.RWMutex
	jpeg []byte
	seq  uint64
}

// NewFrameBuffer creates an empty frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Update replaces the stored frame. The data is copied so the caller may
// reuse its buffer.
func (b *FrameBuffer) Update(jpeg []byte) {
	cp := make([]byte, len(jpeg))
	copy(cp, jpeg)

	b.mu.Lock()
	b.jpeg = cp
	b.seq++
	b.mu.Unlock()
}

// Latest returns the stored frame and its sequence number. The frame is
// nil before the first update.
func (b *FrameBuffer) Latest() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.seq
}
