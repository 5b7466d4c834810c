package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestChannelDisabledByDefault(t *testing.T) {
	if IsEnabled() {
		t.Fatalf("metrics enabled before any Enable() call")
	}
	c := NewChannel(prometheus.NewRegistry(), 1, "writer")
	if c != nil {
		t.Fatalf("NewChannel = %v, want nil while disabled", c)
	}
	// Nil-receiver methods must stay safe no-ops.
	c.RecordWrite(10)
	c.RecordRead()
	c.RecordFull()
}

func TestChannelRecordsWhenEnabled(t *testing.T) {
	Enable()
	defer func() { enabled = false }()

	reg := prometheus.NewRegistry()
	w := NewChannel(reg, 42, "writer")
	if w == nil {
		t.Fatalf("NewChannel = nil while enabled")
	}
	w.RecordWrite(5)
	w.RecordWrite(7)
	w.RecordFull()

	if got := counterValue(t, w.recordsWritten); got != 2 {
		t.Fatalf("recordsWritten = %v, want 2", got)
	}
	if got := counterValue(t, w.bytesWritten); got != 12 {
		t.Fatalf("bytesWritten = %v, want 12", got)
	}
	if got := counterValue(t, w.channelFull); got != 1 {
		t.Fatalf("channelFull = %v, want 1", got)
	}
}

func TestChannelSharesCounterAcrossReaders(t *testing.T) {
	Enable()
	defer func() { enabled = false }()

	reg := prometheus.NewRegistry()
	r1 := NewChannel(reg, 7, "reader")
	r2 := NewChannel(reg, 7, "reader")
	r1.RecordRead()
	r2.RecordRead()

	if got := counterValue(t, r1.recordsRead); got != 2 {
		t.Fatalf("shared recordsRead = %v, want 2", got)
	}
}
