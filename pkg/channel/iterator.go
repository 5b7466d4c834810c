package channel

import "time"

// reader is the minimal surface both Reader and TimeoutReader satisfy,
// letting the iterator adapters (C7) wrap either one.
type reader interface {
	TryRead() ReadResult
}

// FusedIterator is the non-retry adapter: it yields ReadResult values
// until the first Nothing or terminal outcome, then yields the zero
// value with ok=false forever after (spec.md §4.7).
type FusedIterator struct {
	r    reader
	done bool
}

// Fuse wraps r in a FusedIterator.
func Fuse(r reader) *FusedIterator {
	return &FusedIterator{r: r}
}

// Next returns the next ReadResult and true, or the zero ReadResult
// and false once the sequence is exhausted.
func (it *FusedIterator) Next() (ReadResult, bool) {
	if it.done {
		return ReadResult{}, false
	}
	res := it.r.TryRead()
	if res.Outcome == OutcomeNothing || res.Outcome.IsTerminal() {
		it.done = true
	}
	return res, true
}

// RetryIterator ignores Nothing (spinning with a capped exponential
// backoff) and yields only Record results until a terminal is
// reached, then is fused (spec.md §4.7).
type RetryIterator struct {
	r        reader
	done     bool
	minPause time.Duration
	maxPause time.Duration
	sleep    func(time.Duration)
}

// defaultMinPause/defaultMaxPause bound the exponential backoff a
// RetryIterator uses while spinning on Nothing, mirroring the
// original source's crossbeam_utils::Backoff cap.
const (
	defaultMinPause = 50 * time.Microsecond
	defaultMaxPause = 10 * time.Millisecond
)

// Retry wraps r in a RetryIterator using the default backoff bounds.
func Retry(r reader) *RetryIterator {
	return &RetryIterator{r: r, minPause: defaultMinPause, maxPause: defaultMaxPause, sleep: time.Sleep}
}

// Next blocks the calling goroutine (but never the writer or other
// readers) until a Record or terminal outcome is available.
func (it *RetryIterator) Next() (ReadResult, bool) {
	if it.done {
		return ReadResult{}, false
	}
	pause := it.minPause
	for {
		res := it.r.TryRead()
		switch {
		case res.Outcome == OutcomeRecord:
			return res, true
		case res.Outcome.IsTerminal():
			it.done = true
			return res, true
		default: // Nothing: back off and retry
			it.sleep(pause)
			pause *= 2
			if pause > it.maxPause {
				pause = it.maxPause
			}
		}
	}
}
