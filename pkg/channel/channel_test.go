package channel

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kekbit.dev/kekbit/pkg/cursor"
	"kekbit.dev/kekbit/pkg/header"
)

func newMeta(id uint64, capacity, maxLen uint32, timeoutNs uint64) header.Metadata {
	return header.Metadata{
		ChannelID:    id,
		Capacity:     capacity,
		MaxRecordLen: maxLen,
		TimeoutNs:    timeoutNs,
		CreationNs:   1,
	}
}

// S1 Echo
func TestScenarioEcho(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s1.kekbit")
	w, err := CreateWriter(path, newMeta(1, 4096, 1024, 0))
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	res := r.TryRead()
	require.Equal(t, OutcomeRecord, res.Outcome)
	require.Equal(t, "hello", string(res.Payload))
	require.EqualValues(t, 0, res.Position)

	res = r.TryRead()
	require.Equal(t, OutcomeRecord, res.Outcome)
	require.Equal(t, "world", string(res.Payload))
	require.EqualValues(t, 16, res.Position)

	res = r.TryRead()
	require.Equal(t, OutcomeClosed, res.Outcome)
	for i := 0; i < 10; i++ {
		require.Equalf(t, OutcomeClosed, r.TryRead().Outcome, "terminal not latched on call %d", i)
	}
}

// S2 Watermark
func TestScenarioWatermark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s2.kekbit")
	w, err := CreateWriter(path, newMeta(2, 64, 32, 0))
	require.NoError(t, err)
	payload := make([]byte, 20)
	_, err = w.Write(payload)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.ErrorIs(t, err, ErrChannelFull)
	require.Equal(t, StateFull, w.State())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, OutcomeRecord, r.TryRead().Outcome)
	require.Equal(t, OutcomeRecord, r.TryRead().Outcome)
	require.Equal(t, OutcomeEndOfChannel, r.TryRead().Outcome)
}

// S3 Abort
func TestScenarioAbort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s3.kekbit")
	w, err := CreateWriter(path, newMeta(3, 4096, 1024, 0))
	require.NoError(t, err)
	_, err = w.Write([]byte("only"))
	require.NoError(t, err)
	// Simulate an ungraceful drop without calling Close.
	w.finalize()

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, OutcomeRecord, r.TryRead().Outcome)
	require.Equal(t, OutcomeAborted, r.TryRead().Outcome)
}

// fakeClock lets S4 drive the timeout decorator deterministically.
type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

// S4 Timeout
func TestScenarioTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s4.kekbit")
	w, err := CreateWriter(path, newMeta(4, 4096, 1024, 1_000_000))
	require.NoError(t, err)
	// Keep the writer reachable (and Open) until the end of the test so
	// its finalizer cannot install ABORT while the reader is polling.
	defer w.Close()
	base := time.Unix(0, 0)
	_, err = w.Write([]byte("tick"))
	require.NoError(t, err)

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	clock := &fakeClock{t: base}
	tr := r.IntoTimeout(r.Metadata().TimeoutNs, clock)

	res := tr.TryRead()
	require.Equal(t, OutcomeRecord, res.Outcome)

	clock.t = base.Add(2_000_000 * time.Nanosecond)
	res = tr.TryRead()
	require.Equal(t, OutcomeTimeout, res.Outcome)

	for i := 0; i < 10; i++ {
		require.Equalf(t, OutcomeTimeout, tr.TryRead().Outcome, "timeout not latched on call %d", i)
	}
}

// S5 Resume — a consumer persists its cursor out-of-band via pkg/cursor
// and resumes a fresh Reader from it, rather than keeping the position
// in a local variable.
func TestScenarioResume(t *testing.T) {
	const channelID = 5
	const consumer = "resume-consumer"

	path := filepath.Join(t.TempDir(), "s5.kekbit")
	w, err := CreateWriter(path, newMeta(channelID, 4096, 1024, 0))
	require.NoError(t, err)
	// Keep the writer reachable (and Open) until the end of the test so
	// its finalizer cannot install ABORT before the final Nothing check.
	defer w.Close()
	for _, s := range []string{"A", "B", "C"} {
		_, err := w.Write([]byte(s))
		require.NoError(t, err)
	}

	store, err := cursor.Open(filepath.Join(t.TempDir(), "cursors"))
	require.NoError(t, err)
	defer store.Close()

	r1, err := OpenReader(path)
	require.NoError(t, err)
	res := r1.TryRead()
	require.Equal(t, OutcomeRecord, res.Outcome)
	require.Equal(t, "A", string(res.Payload))
	res = r1.TryRead()
	require.Equal(t, OutcomeRecord, res.Outcome)
	require.Equal(t, "B", string(res.Payload))

	require.NoError(t, store.Save(channelID, consumer, r1.Position()))
	require.NoError(t, r1.Close())

	p, found, err := store.Load(channelID, consumer)
	require.NoError(t, err)
	require.True(t, found)

	r2, err := OpenReader(path)
	require.NoError(t, err)
	defer r2.Close()
	require.NoError(t, r2.MoveTo(p))

	res = r2.TryRead()
	require.Equal(t, OutcomeRecord, res.Outcome)
	require.Equal(t, "C", string(res.Payload))
	res = r2.TryRead()
	require.Equal(t, OutcomeNothing, res.Outcome)
}

// S6 Oversize
func TestScenarioOversize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s6.kekbit")
	w, err := CreateWriter(path, newMeta(6, 4096, 16, 0))
	require.NoError(t, err)
	before := w.Position()
	_, err = w.Write(make([]byte, 17))
	require.ErrorIs(t, err, ErrRecordTooLarge)
	require.Equal(t, before, w.Position())
	require.Equal(t, StateOpen, w.State())
	_, err = w.Write([]byte("ok"))
	require.NoError(t, err)
}

// Invariant 8: capacity exactness.
func TestCapacityExactness(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inv8.kekbit")
	const capacity = 256
	const maxLen = 32
	w, err := CreateWriter(path, newMeta(7, capacity, maxLen, 0))
	require.NoError(t, err)
	payload := make([]byte, maxLen)
	count := 0
	for {
		if _, err := w.Write(payload); err != nil {
			break
		}
		count++
	}
	want := int(capacity / frameSizeOf(maxLen))
	require.Equal(t, want, count)
}

func frameSizeOf(payloadLen uint32) uint32 {
	total := payloadLen + 4
	return (total + 7) &^ 7
}
