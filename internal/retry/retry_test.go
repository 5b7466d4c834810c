package retry

import (
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

type fakeWriter struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeWriter) Write(payload []byte) (uint32, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	return uint32(n), nil
}

func TestSerializedWriterConcurrent(t *testing.T) {
	fw := &fakeWriter{}
	sw := NewSerializedWriter(fw)

	var g errgroup.Group
	const goroutines = 16
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			_, err := sw.Write([]byte("x"))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if fw.calls != goroutines {
		t.Fatalf("calls = %d, want %d", fw.calls, goroutines)
	}
}
