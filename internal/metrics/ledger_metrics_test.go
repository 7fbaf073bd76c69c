package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := g.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewLedgerMetricsWithRegisterer(t *testing.T) {
	m := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())

	if m.operations == nil {
		t.Error("operations counter vec should not be nil")
	}
	if m.opDuration == nil {
		t.Error("opDuration histogram vec should not be nil")
	}
	if m.unitsSold == nil || m.unitsRefunded == nil {
		t.Error("unit counters should not be nil")
	}
	if m.resurrections == nil || m.persistFailure == nil {
		t.Error("resurrection/persist counters should not be nil")
	}
	if m.catalogSize == nil || m.ledgerSize == nil {
		t.Error("size gauges should not be nil")
	}
}

func TestNewLedgerMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewLedgerMetricsWithRegisterer(reg)
	second := NewLedgerMetricsWithRegisterer(reg)

	first.RecordPersistFailure()
	if got := counterValue(t, second.persistFailure); got != 1 {
		t.Fatalf("expected shared collector value 1, got %f", got)
	}
}

func TestRecordOperation(t *testing.T) {
	m := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOperation("sell", ResultOK, 10*time.Millisecond)
	m.RecordOperation("sell", ResultOK, 5*time.Millisecond)
	m.RecordOperation("sell", ResultRejected, time.Millisecond)

	if got := counterValue(t, m.operations.WithLabelValues("sell", ResultOK)); got != 2 {
		t.Errorf("expected 2 ok sells, got %f", got)
	}
	if got := counterValue(t, m.operations.WithLabelValues("sell", ResultRejected)); got != 1 {
		t.Errorf("expected 1 rejected sell, got %f", got)
	}
}

func TestRecordUnits(t *testing.T) {
	m := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordUnitsSold(3)
	m.RecordUnitsSold(2)
	m.RecordUnitsRefunded(3)
	m.RecordResurrection()

	if got := counterValue(t, m.unitsSold); got != 5 {
		t.Errorf("expected 5 units sold, got %f", got)
	}
	if got := counterValue(t, m.unitsRefunded); got != 3 {
		t.Errorf("expected 3 units refunded, got %f", got)
	}
	if got := counterValue(t, m.resurrections); got != 1 {
		t.Errorf("expected 1 resurrection, got %f", got)
	}
}

func TestSetSizes(t *testing.T) {
	m := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())

	m.SetSizes(4, 2)
	if got := gaugeValue(t, m.catalogSize); got != 4 {
		t.Errorf("expected catalog size 4, got %f", got)
	}
	if got := gaugeValue(t, m.ledgerSize); got != 2 {
		t.Errorf("expected ledger size 2, got %f", got)
	}

	m.SetSizes(0, 0)
	if got := gaugeValue(t, m.catalogSize); got != 0 {
		t.Errorf("expected catalog size 0, got %f", got)
	}
}
