// Package retry supplements spec.md's explicitly external "optional
// multi-writer adapter" with a SerializedWriter, grounded on
// original_source/retry.rs's RetryWriter: a sync.Mutex-guarded wrapper
// letting several goroutines share one channel.Writer, backing off on
// contention. This intentionally lives outside pkg/channel — the core
// engine remains single-producer by construction (spec.md §5).
package retry

import (
	"sync"
	"time"
)

// writer is the minimal surface of channel.Writer this adapter needs,
// avoiding an import cycle and letting tests supply a fake.
type writer interface {
	Write(payload []byte) (uint32, error)
}

// SerializedWriter serializes concurrent Write calls from multiple
// goroutines onto a single underlying writer via a mutex, with bounded
// exponential backoff on contention before blocking outright.
type SerializedWriter struct {
	mu       sync.Mutex
	w        writer
	minPause time.Duration
	maxPause time.Duration
}

// NewSerializedWriter wraps w for safe concurrent use by multiple
// goroutines. This is the only place in the module where multiple
// logical producers may share one channel.Writer.
func NewSerializedWriter(w writer) *SerializedWriter {
	return &SerializedWriter{w: w, minPause: 50 * time.Microsecond, maxPause: 5 * time.Millisecond}
}

// Write attempts to acquire the lock with a short spin-then-backoff
// sequence before falling back to a blocking Lock, then delegates to
// the underlying writer.
func (s *SerializedWriter) Write(payload []byte) (uint32, error) {
	pause := s.minPause
	for i := 0; i < 4; i++ {
		if s.mu.TryLock() {
			defer s.mu.Unlock()
			return s.w.Write(payload)
		}
		time.Sleep(pause)
		pause *= 2
		if pause > s.maxPause {
			pause = s.maxPause
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(payload)
}
