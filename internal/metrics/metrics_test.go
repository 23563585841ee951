package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestTicksTotalIncrements(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.TicksTotal.Inc()
	c.TicksTotal.Inc()
	if got := counterValue(t, c.TicksTotal); got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
}

func TestLedgerLengthGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.LedgerLength.Set(5)
	if got := gaugeValue(t, c.LedgerLength); got != 5 {
		t.Fatalf("got %v, want 5", got)
	}
}

func TestTickDurationObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.TickDuration.Observe(time.Millisecond.Seconds())
	var m dto.Metric
	if err := c.TickDuration.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("write: %v", err)
	}
	if m.GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected 1 sample, got %d", m.GetHistogram().GetSampleCount())
	}
}

func TestVerifyFailuresCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.VerifyFailures.Inc()
	if got := counterValue(t, c.VerifyFailures); got != 1 {
		t.Fatalf("got %v, want 1", got)
	}
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	New(reg)
}
