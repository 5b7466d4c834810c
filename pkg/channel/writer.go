// Package channel implements the writer state machine (C4), reader
// state machine (C5), the timeout reader decorator (C6), and the
// iterator adapters (C7) from spec.md §4.4-4.7.
//
// Grounded on original_source/src/core/writer.rs (write/close/abort
// protocol) and reader.rs (try_read/TimeoutReader/TryIter/RetryIter),
// with the single-owner handle style of gosuda-HQQ/link.go.
package channel

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"kekbit.dev/kekbit/internal/metrics"
	"kekbit.dev/kekbit/pkg/header"
	"kekbit.dev/kekbit/pkg/mmap"
	"kekbit.dev/kekbit/pkg/record"
)

// State is the writer's lifecycle state (spec.md §4.4).
type State int32

const (
	StateOpen State = iota
	StateClosed
	StateFull
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "Open"
	case StateClosed:
		return "Closed"
	case StateFull:
		return "Full"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Writer is a single-owner handle producing records into a mapped
// channel. It is not safe for concurrent use by multiple goroutines —
// spec.md §5 fixes single-producer semantics by construction; see
// internal/retry for an external adapter serializing concurrent
// callers behind a mutex.
type Writer struct {
	region   *mmap.Region
	meta     header.Metadata
	writePos uint32
	state    State
	metrics  *metrics.Channel
}

// CreateWriter allocates a new channel file at path sized
// header.Len+meta.Capacity, writes the header, and returns an Open
// writer. meta.ChannelID/CreationNs must already be populated by the
// caller; Validate is invoked internally.
func CreateWriter(path string, meta header.Metadata) (*Writer, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	hdr, err := header.Encode(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	total := int64(header.Len) + int64(meta.Capacity)
	region, err := mmap.Create(path, total)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	copy(region.Bytes()[:header.Len], hdr)
	if err := region.Flush(0, header.Len, false); err != nil {
		region.Close()
		return nil, err
	}
	w := &Writer{
		region:   region,
		meta:     meta,
		writePos: 0,
		state:    StateOpen,
		metrics:  metrics.NewChannel(prometheus.DefaultRegisterer, meta.ChannelID, "writer"),
	}
	runtime.SetFinalizer(w, (*Writer).finalize)
	return w, nil
}

func (w *Writer) recordRegion() []byte {
	return w.region.Bytes()[header.Len:]
}

// Write reserves space for payload, copies it in, and publishes it
// with a release store, per the five-step protocol in spec.md §4.4.
// It returns the byte offset the record was written at.
func (w *Writer) Write(payload []byte) (uint32, error) {
	if w.state != StateOpen {
		return 0, ErrChannelClosed
	}
	if len(payload) == 0 {
		return 0, ErrEmptyRecord
	}
	if uint32(len(payload)) > w.meta.MaxRecordLen {
		return 0, ErrRecordTooLarge
	}
	slot := record.FrameSize(uint32(len(payload)))
	buf := w.recordRegion()
	if w.writePos+slot > w.meta.Capacity {
		w.installTerminal(buf, record.Watermark)
		w.state = StateFull
		w.metrics.RecordFull()
		return 0, ErrChannelFull
	}
	pos := w.writePos
	record.EncodeAt(buf, pos, payload)
	record.PublishLen(buf, pos, uint32(len(payload)))
	w.writePos += slot
	w.metrics.RecordWrite(len(payload))
	return pos, nil
}

// installTerminal writes a sentinel at the current write position if
// room remains; otherwise the channel is already effectively full and
// no sentinel is written (there is no space for one).
func (w *Writer) installTerminal(buf []byte, sentinel uint32) {
	if w.writePos+record.HeaderLen > w.meta.Capacity {
		return
	}
	record.PublishLen(buf, w.writePos, sentinel)
}

// Close installs the CLOSE sentinel (if the writer is still Open and
// there is room), unmaps the region, and transitions to StateClosed.
// Calling Close on a Closed or Aborted writer is a no-op.
func (w *Writer) Close() error {
	if w.state == StateClosed || w.state == StateAborted {
		return nil
	}
	if w.state == StateOpen {
		w.installTerminal(w.recordRegion(), record.Close)
	}
	w.state = StateClosed
	runtime.SetFinalizer(w, nil)
	return w.region.Close()
}

// touchPayload is a single non-semantic byte. The length word's zero
// value is reserved for "not yet published" (spec.md §3), so a true
// zero-length record can never be published unambiguously; Touch
// writes the smallest representable record instead.
var touchPayload = []byte{0}

// Touch writes an idempotent, minimal-payload record. It is never
// called automatically by the engine — see SPEC_FULL.md §1's
// heartbeat policy decision — but is exposed for callers who want an
// explicit, application-driven liveness signal.
func (w *Writer) Touch() (uint32, error) {
	return w.Write(touchPayload)
}

// State reports the writer's current lifecycle state.
func (w *Writer) State() State { return w.state }

// Position reports the writer's current write_pos.
func (w *Writer) Position() uint32 { return w.writePos }

// finalize is the destructor-path abort: if the writer was never
// explicitly closed, install the ABORT sentinel before the mapping is
// garbage collected. This approximates spec.md §4.4's "Abort installs
// ABORT from the destructor path" in a GC'd language; explicit Close
// is still the primary, recommended path.
func (w *Writer) finalize() {
	if w.state == StateOpen {
		w.installTerminal(w.recordRegion(), record.Abort)
		w.state = StateAborted
		w.region.Close()
	}
}
