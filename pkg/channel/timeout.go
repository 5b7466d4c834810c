package channel

import "time"

// Clock abstracts the monotonic time source the timeout decorator
// uses, so tests can drive scenario S4 with a fake clock instead of
// wall time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall/monotonic time.
func (SystemClock) Now() time.Time { return time.Now() }

// TimeoutReader wraps a Reader and a Clock, layering the writer-
// heartbeat liveness protocol (C6) over the reader core, which itself
// knows nothing about time (spec.md §4.6).
type TimeoutReader struct {
	inner        *Reader
	clock        Clock
	timeout      time.Duration
	lastProgress time.Time
	timedOut     bool
}

// IntoTimeout constructs a TimeoutReader from r, using timeoutNs as
// the liveness window (typically the channel's header.TimeoutNs) and
// clock as the time source. The decorator's timer starts now and
// resets only when a real Record is observed — see SPEC_FULL.md §1's
// heartbeat policy decision.
func (r *Reader) IntoTimeout(timeoutNs uint64, clock Clock) *TimeoutReader {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TimeoutReader{
		inner:        r,
		clock:        clock,
		timeout:      time.Duration(timeoutNs),
		lastProgress: clock.Now(),
	}
}

// TryRead delegates to the inner reader, updating or checking the
// liveness window per spec.md §4.6.
func (t *TimeoutReader) TryRead() ReadResult {
	if t.timedOut {
		return ReadResult{Outcome: OutcomeTimeout, Position: t.inner.Position()}
	}
	res := t.inner.TryRead()
	switch res.Outcome {
	case OutcomeRecord:
		t.lastProgress = t.clock.Now()
		return res
	case OutcomeNothing:
		if t.timeout > 0 && t.clock.Now().Sub(t.lastProgress) > t.timeout {
			t.timedOut = true
			return ReadResult{Outcome: OutcomeTimeout, Position: t.inner.Position()}
		}
		return res
	default:
		return res
	}
}

// Position reports the wrapped reader's current read_pos.
func (t *TimeoutReader) Position() uint32 { return t.inner.Position() }

// Exhausted reports whether a terminal outcome (including timeout)
// has been latched.
func (t *TimeoutReader) Exhausted() bool { return t.timedOut || t.inner.Exhausted() }

// Close unmaps the wrapped reader's region.
func (t *TimeoutReader) Close() error { return t.inner.Close() }
