// Package stream writes incremental text responses with per-fragment
// flushing, so clients observe fragments as they arrive rather than a
// buffered whole.
package stream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Writer streams text fragments over a text/plain response. Each fragment
// is flushed immediately; nothing beyond the fragment being written is
// ever buffered.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter wraps a ResponseWriter for fragment streaming. Fails when the
// underlying transport cannot flush.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}
	return &Writer{w: w, flusher: flusher}, nil
}

// Begin commits the streaming headers and status. Must be called once,
// before the first fragment; after this the response mode cannot change.
func (s *Writer) Begin() {
	s.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	s.w.Header().Set("Cache-Control", "no-cache")
	// Disable proxy buffering so fragments reach the client immediately
	s.w.Header().Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
}

// WriteFragment writes one fragment and flushes it. The write blocks when
// the transport applies backpressure; that is the pipeline's throttle.
func (s *Writer) WriteFragment(text string) error {
	if _, err := io.WriteString(s.w, text); err != nil {
		return fmt.Errorf("write fragment failed: %w", err)
	}
	s.flusher.Flush()
	return nil
}
