// Package handler implements the optional pre-write handler chain
// (C8): purely functional payload transforms composed before a
// payload reaches the writer, grounded on
// original_source/src/core/handlers.rs's Sequence/Timestamp/Chained
// units.
package handler

import (
	"encoding/binary"
	"time"
)

// Handler transforms a payload before it is written. Handle must be
// pure over its input plus the handler's own small internal state;
// composition via Chain is associative.
type Handler interface {
	Handle(payload []byte) ([]byte, error)
}

// Func adapts a plain function to the Handler interface.
type Func func([]byte) ([]byte, error)

// Handle calls f.
func (f Func) Handle(payload []byte) ([]byte, error) { return f(payload) }

// Sequence prepends a monotonically increasing 8-byte counter,
// incremented before each write. Not safe for concurrent use, matching
// the single-producer discipline of the writer it feeds.
type Sequence struct {
	next uint64
}

// NewSequence creates a Sequence handler starting at start.
func NewSequence(start uint64) *Sequence { return &Sequence{next: start} }

// Handle increments the counter and prepends it, little-endian.
func (s *Sequence) Handle(payload []byte) ([]byte, error) {
	s.next++
	out := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint64(out[:8], s.next)
	copy(out[8:], payload)
	return out, nil
}

// Timestamp prepends the clock's UnixNano value (8 bytes,
// little-endian) ahead of the payload. The stamp is wall-clock time
// and is not guaranteed to be monotonic.
type Timestamp struct {
	now func() time.Time
}

// NewTimestamp creates a Timestamp handler using time.Now, or a
// supplied clock function for deterministic tests.
func NewTimestamp(now func() time.Time) *Timestamp {
	if now == nil {
		now = time.Now
	}
	return &Timestamp{now: now}
}

// Handle prepends the current timestamp in nanoseconds.
func (t *Timestamp) Handle(payload []byte) ([]byte, error) {
	out := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint64(out[:8], uint64(t.now().UnixNano()))
	copy(out[8:], payload)
	return out, nil
}

// Chained composes two handlers: incoming flows through first, then
// second. Handler composition is associative, so Chain(a, Chain(b, c))
// behaves the same as Chain(Chain(a, b), c).
type Chained struct {
	first, second Handler
}

// Chain composes first and second into a single Handler.
func Chain(first, second Handler) *Chained {
	return &Chained{first: first, second: second}
}

// Handle applies first, then second, to the result.
func (c *Chained) Handle(payload []byte) ([]byte, error) {
	mid, err := c.first.Handle(payload)
	if err != nil {
		return nil, err
	}
	return c.second.Handle(mid)
}

// Encoder is the bottom-of-chain handler that serializes a typed
// value to bytes via a supplied encode function, then passes the raw
// bytes through unchanged (mirroring original_source/api.rs's
// EncoderHandler, which simply writes raw bytes).
type Encoder[T any] struct {
	encode func(T) ([]byte, error)
}

// NewEncoder builds an Encoder handler from an encode function.
func NewEncoder[T any](encode func(T) ([]byte, error)) *Encoder[T] {
	return &Encoder[T]{encode: encode}
}

// EncodeValue runs the encoder directly on a typed value, for callers
// that want to feed the result into a handler chain built with Chain.
func (e *Encoder[T]) EncodeValue(v T) ([]byte, error) { return e.encode(v) }

// Handle passes bytes through unchanged; Encoder's typed encoding
// step happens in EncodeValue, upstream of the byte-oriented chain.
func (e *Encoder[T]) Handle(payload []byte) ([]byte, error) { return payload, nil }
