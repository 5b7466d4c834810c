package channel

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"kekbit.dev/kekbit/internal/metrics"
	"kekbit.dev/kekbit/pkg/header"
	"kekbit.dev/kekbit/pkg/mmap"
	"kekbit.dev/kekbit/pkg/record"
)

// Outcome discriminates a TryRead result (spec.md §4.5's ReadResult).
type Outcome int

const (
	OutcomeRecord Outcome = iota
	OutcomeNothing
	OutcomeEndOfChannel
	OutcomeClosed
	OutcomeAborted
	OutcomeCorrupt
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecord:
		return "Record"
	case OutcomeNothing:
		return "Nothing"
	case OutcomeEndOfChannel:
		return "EndOfChannel"
	case OutcomeClosed:
		return "ChannelClosed"
	case OutcomeAborted:
		return "ChannelAborted"
	case OutcomeCorrupt:
		return "CorruptRecord"
	case OutcomeTimeout:
		return "ChannelTimeout"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether o is one of the latched terminal outcomes.
func (o Outcome) IsTerminal() bool {
	switch o {
	case OutcomeEndOfChannel, OutcomeClosed, OutcomeAborted, OutcomeCorrupt, OutcomeTimeout:
		return true
	default:
		return false
	}
}

// ReadResult is the outcome of one Reader.TryRead call.
type ReadResult struct {
	Outcome  Outcome
	Payload  []byte // valid only when Outcome == OutcomeRecord
	Position uint32 // frame offset for Record, read_pos otherwise
}

// Reader is a single-owner, wait-free handle consuming records from a
// mapped channel. Many independent Readers may coexist over the same
// file (spec.md §5); each owns its own mapping and read_pos.
type Reader struct {
	region   *mmap.Region
	meta     header.Metadata
	readPos  uint32
	terminal *ReadResult
	metrics  *metrics.Channel
}

// OpenReader maps an existing channel file read-only and validates
// its header.
func OpenReader(path string) (*Reader, error) {
	region, err := mmap.Open(path, 0, false)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	hdrBytes := region.Bytes()
	if len(hdrBytes) < header.Len {
		region.Close()
		return nil, fmt.Errorf("channel: file too short for header")
	}
	meta, err := header.Decode(hdrBytes[:header.Len])
	if err != nil {
		region.Close()
		return nil, err
	}
	want := int64(header.Len) + int64(meta.Capacity)
	if int64(region.Len()) != want {
		region.Close()
		return nil, ErrMappingInconsistent
	}
	return &Reader{
		region:  region,
		meta:    meta,
		metrics: metrics.NewChannel(prometheus.DefaultRegisterer, meta.ChannelID, "reader"),
	}, nil
}

func (r *Reader) recordRegion() []byte {
	return r.region.Bytes()[header.Len:]
}

// TryRead performs one wait-free step of the algorithm in spec.md
// §4.5: acquire-load the length word at read_pos, classify it, and
// either advance or latch a terminal outcome.
func (r *Reader) TryRead() ReadResult {
	if r.terminal != nil {
		return *r.terminal
	}
	buf := r.recordRegion()
	if r.readPos+record.HeaderLen > r.meta.Capacity {
		return r.latch(ReadResult{Outcome: OutcomeEndOfChannel, Position: r.readPos})
	}
	lw := record.ObserveLen(buf, r.readPos)
	d := record.DecodeLenWord(r.readPos, lw)
	switch d.Kind {
	case record.KindNotReady:
		return ReadResult{Outcome: OutcomeNothing, Position: r.readPos}
	case record.KindWatermark:
		return r.latch(ReadResult{Outcome: OutcomeEndOfChannel, Position: r.readPos})
	case record.KindClosed:
		return r.latch(ReadResult{Outcome: OutcomeClosed, Position: r.readPos})
	case record.KindAborted:
		return r.latch(ReadResult{Outcome: OutcomeAborted, Position: r.readPos})
	case record.KindRecord:
		if d.Len > r.meta.MaxRecordLen || r.readPos+record.FrameSize(d.Len) > r.meta.Capacity {
			return r.latch(ReadResult{Outcome: OutcomeCorrupt, Position: r.readPos})
		}
		payload := record.PayloadSlice(buf, d)
		pos := r.readPos
		r.readPos += record.FrameSize(d.Len)
		r.metrics.RecordRead()
		return ReadResult{Outcome: OutcomeRecord, Payload: payload, Position: pos}
	default:
		return r.latch(ReadResult{Outcome: OutcomeCorrupt, Position: r.readPos})
	}
}

func (r *Reader) latch(res ReadResult) ReadResult {
	r.terminal = &res
	return res
}

// MoveTo resumes a reader from a previously recorded position,
// supporting out-of-band cursor persistence (spec.md §4.5, scenario
// S5). position must be 8-byte aligned and within capacity.
func (r *Reader) MoveTo(position uint32) error {
	if position%record.Align != 0 || position >= r.meta.Capacity {
		return ErrInvalidPosition
	}
	r.readPos = position
	r.terminal = nil
	return nil
}

// Position reports the reader's current read_pos.
func (r *Reader) Position() uint32 { return r.readPos }

// Exhausted reports whether a terminal outcome has been latched.
func (r *Reader) Exhausted() bool { return r.terminal != nil }

// Metadata exposes the validated channel header this reader opened.
func (r *Reader) Metadata() header.Metadata { return r.meta }

// Close unmaps the reader's region.
func (r *Reader) Close() error { return r.region.Close() }
