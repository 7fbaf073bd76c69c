package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций для метки result.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultNotFound = "not_found"
	ResultPersist  = "persist_failed"
)

// LedgerMetrics содержит метрики каталога и журнала продаж.
type LedgerMetrics struct {
	// Счётчики операций по типу и результату
	operations *prometheus.CounterVec
	opDuration *prometheus.HistogramVec

	unitsSold      prometheus.Counter
	unitsRefunded  prometheus.Counter
	resurrections  prometheus.Counter
	persistFailure prometheus.Counter

	// Текущие размеры коллекций
	catalogSize prometheus.Gauge
	ledgerSize  prometheus.Gauge
}

// NewLedgerMetrics создаёт метрики в prometheus.DefaultRegisterer.
func NewLedgerMetrics() *LedgerMetrics {
	return NewLedgerMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewLedgerMetricsWithRegisterer создаёт метрики в указанном реестре.
func NewLedgerMetricsWithRegisterer(registerer prometheus.Registerer) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &LedgerMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "store_ledger_operations_total",
			Help: "Total number of ledger operations grouped by operation and result",
		}, []string{"operation", "result"}),
		opDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "store_ledger_operation_duration_seconds",
			Help:    "Duration of ledger operations including persistence",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"operation"}),
		unitsSold: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_units_sold_total",
			Help: "Total number of units sold",
		}),
		unitsRefunded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_units_refunded_total",
			Help: "Total number of units returned to stock by refunds",
		}),
		resurrections: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_products_restored_total",
			Help: "Total number of deleted products restored by refunds",
		}),
		persistFailure: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_persist_failures_total",
			Help: "Total number of snapshot saves that failed",
		}),
		catalogSize: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "store_catalog_products",
			Help: "Number of products currently in the catalog",
		}),
		ledgerSize: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "store_ledger_sales",
			Help: "Number of sales currently in the ledger",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOperation учитывает завершённую операцию и её длительность.
func (m *LedgerMetrics) RecordOperation(operation, result string, duration time.Duration) {
	m.operations.WithLabelValues(operation, result).Inc()
	m.opDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordUnitsSold увеличивает счётчик проданных единиц.
func (m *LedgerMetrics) RecordUnitsSold(qty int) {
	m.unitsSold.Add(float64(qty))
}

// RecordUnitsRefunded увеличивает счётчик возвращённых на склад единиц.
func (m *LedgerMetrics) RecordUnitsRefunded(qty int) {
	m.unitsRefunded.Add(float64(qty))
}

// RecordResurrection учитывает восстановление удалённого товара.
func (m *LedgerMetrics) RecordResurrection() {
	m.resurrections.Inc()
}

// RecordPersistFailure учитывает неудачное сохранение снимка.
func (m *LedgerMetrics) RecordPersistFailure() {
	m.persistFailure.Inc()
}

// SetSizes выставляет текущие размеры каталога и журнала.
func (m *LedgerMetrics) SetSizes(products, sales int) {
	m.catalogSize.Set(float64(products))
	m.ledgerSize.Set(float64(sales))
}
