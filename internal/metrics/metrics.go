// Package metrics wires github.com/prometheus/client_golang into the
// engine using the nil-interface-means-disabled pattern observed in
// marmos91-dittofs/pkg/metrics/cache.go: callers that never enable
// metrics pay no allocation or registration cost.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Channel records counters for one writer or reader's activity. A nil
// *Channel is valid; every method on it is then a no-op.
type Channel struct {
	recordsWritten prometheus.Counter
	recordsRead    prometheus.Counter
	bytesWritten   prometheus.Counter
	channelFull    prometheus.Counter
}

var enabled bool

// Enable turns on metrics registration for subsequently constructed
// Channel instances.
func Enable() { enabled = true }

// IsEnabled reports whether metrics collection is turned on.
func IsEnabled() bool { return enabled }

// NewChannel registers a Channel's metrics under reg, labeled by
// channel id and role ("writer" or "reader" — a channel can have one
// writer but many readers, so the writer's series stay separate from
// the readers', while all readers of one channel id share one set of
// counters), or returns nil if metrics are disabled.
func NewChannel(reg prometheus.Registerer, channelID uint64, role string) *Channel {
	if !enabled {
		return nil
	}
	labels := prometheus.Labels{"channel_id": itoa(channelID), "role": role}
	return &Channel{
		recordsWritten: registerCounter(reg, prometheus.CounterOpts{
			Namespace: "kekbit", Name: "records_written_total", ConstLabels: labels,
		}),
		recordsRead: registerCounter(reg, prometheus.CounterOpts{
			Namespace: "kekbit", Name: "records_read_total", ConstLabels: labels,
		}),
		bytesWritten: registerCounter(reg, prometheus.CounterOpts{
			Namespace: "kekbit", Name: "bytes_written_total", ConstLabels: labels,
		}),
		channelFull: registerCounter(reg, prometheus.CounterOpts{
			Namespace: "kekbit", Name: "channel_full_total", ConstLabels: labels,
		}),
	}
}

// registerCounter registers a new counter, or returns the already-
// registered one for the same name/labels: multiple readers on one
// channel share role="reader" labels and must aggregate into the same
// counter rather than collide on registration.
func registerCounter(reg prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return c
}

// RecordWrite increments the write counters; safe to call on a nil *Channel.
func (c *Channel) RecordWrite(n int) {
	if c == nil {
		return
	}
	c.recordsWritten.Inc()
	c.bytesWritten.Add(float64(n))
}

// RecordRead increments the read counter; safe to call on a nil *Channel.
func (c *Channel) RecordRead() {
	if c == nil {
		return
	}
	c.recordsRead.Inc()
}

// RecordFull increments the channel-full counter; safe to call on a nil *Channel.
func (c *Channel) RecordFull() {
	if c == nil {
		return
	}
	c.channelFull.Inc()
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
