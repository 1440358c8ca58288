package observability

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds all performance metrics for the prodplan service.
type Metrics struct {
	// Database metrics
	dbTransactionBegin   *Histogram
	dbTransactionCommit  *Histogram
	dbActiveTransactions *AtomicGauge

	// Service layer metrics
	serviceOpDuration *HistogramVec
	plansCreated      *Counter
	plansDeleted      *Counter
	adjustmentsApplied *Counter
	productionReads   *Counter

	// Transport metrics
	httpResponses *CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics() *Metrics {
	return &Metrics{
		dbTransactionBegin:   NewHistogram(),
		dbTransactionCommit:  NewHistogram(),
		dbActiveTransactions: NewAtomicGauge(),

		serviceOpDuration:  NewHistogramVec(),
		plansCreated:       NewCounter(),
		plansDeleted:       NewCounter(),
		adjustmentsApplied: NewCounter(),
		productionReads:    NewCounter(),

		httpResponses: NewCounterVec(),
	}
}

// Database metrics accessors
func (m *Metrics) DBTransactionBegin() *Histogram     { return m.dbTransactionBegin }
func (m *Metrics) DBTransactionCommit() *Histogram    { return m.dbTransactionCommit }
func (m *Metrics) DBActiveTransactions() *AtomicGauge { return m.dbActiveTransactions }

// Service layer metrics accessors
func (m *Metrics) ServiceOpDuration() *HistogramVec { return m.serviceOpDuration }
func (m *Metrics) PlansCreated() *Counter           { return m.plansCreated }
func (m *Metrics) PlansDeleted() *Counter           { return m.plansDeleted }
func (m *Metrics) AdjustmentsApplied() *Counter     { return m.adjustmentsApplied }
func (m *Metrics) ProductionReads() *Counter        { return m.productionReads }

// Transport metrics accessors
func (m *Metrics) HTTPResponses() *CounterVec { return m.httpResponses }

// Snapshot returns a snapshot of all metrics for reporting.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	return &MetricsSnapshot{
		DBTransactionBegin:   m.dbTransactionBegin.Snapshot(),
		DBTransactionCommit:  m.dbTransactionCommit.Snapshot(),
		DBActiveTransactions: m.dbActiveTransactions.Get(),

		ServiceOpDuration:  m.serviceOpDuration.Snapshot(),
		PlansCreated:       m.plansCreated.Get(),
		PlansDeleted:       m.plansDeleted.Get(),
		AdjustmentsApplied: m.adjustmentsApplied.Get(),
		ProductionReads:    m.productionReads.Get(),

		HTTPResponses: m.httpResponses.Snapshot(),
	}
}

// MetricsSnapshot holds a point-in-time snapshot of all metrics.
type MetricsSnapshot struct {
	DBTransactionBegin   HistogramSnapshot `json:"db_transaction_begin"`
	DBTransactionCommit  HistogramSnapshot `json:"db_transaction_commit"`
	DBActiveTransactions int64             `json:"db_active_transactions"`

	ServiceOpDuration  map[string]HistogramSnapshot `json:"service_op_duration"`
	PlansCreated       int64                        `json:"plans_created"`
	PlansDeleted       int64                        `json:"plans_deleted"`
	AdjustmentsApplied int64                        `json:"adjustments_applied"`
	ProductionReads    int64                        `json:"production_reads"`

	HTTPResponses map[string]int64 `json:"http_responses"`
}

// Histogram tracks the distribution of duration measurements.
// Thread-safe for concurrent observations.
type Histogram struct {
	mu     sync.RWMutex
	values []float64 // Stored in microseconds for precision
}

// NewHistogram creates a new histogram.
func NewHistogram() *Histogram {
	return &Histogram{
		values: make([]float64, 0, 1000),
	}
}

// Observe records a duration measurement.
func (h *Histogram) Observe(d time.Duration) {
	micros := float64(d.Microseconds())
	h.mu.Lock()
	h.values = append(h.values, micros)
	h.mu.Unlock()
}

// Snapshot returns a point-in-time snapshot with percentiles calculated.
func (h *Histogram) Snapshot() HistogramSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.values) == 0 {
		return HistogramSnapshot{}
	}

	// Copy and sort for percentile calculation
	sorted := make([]float64, len(h.values))
	copy(sorted, h.values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	return HistogramSnapshot{
		Count: len(sorted),
		Mean:  time.Duration(mean) * time.Microsecond,
		P50:   time.Duration(percentile(sorted, 0.50)) * time.Microsecond,
		P95:   time.Duration(percentile(sorted, 0.95)) * time.Microsecond,
		P99:   time.Duration(percentile(sorted, 0.99)) * time.Microsecond,
		Max:   time.Duration(sorted[len(sorted)-1]) * time.Microsecond,
	}
}

// HistogramSnapshot holds calculated statistics for a histogram.
type HistogramSnapshot struct {
	Count int           `json:"count"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
	Max   time.Duration `json:"max"`
}

// percentile calculates the p-th percentile from sorted values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// HistogramVec is a collection of histograms with labels.
type HistogramVec struct {
	mu         sync.RWMutex
	histograms map[string]*Histogram
}

// NewHistogramVec creates a new histogram vector.
func NewHistogramVec() *HistogramVec {
	return &HistogramVec{
		histograms: make(map[string]*Histogram),
	}
}

// WithLabels returns a histogram for the given label string.
func (hv *HistogramVec) WithLabels(labels string) *Histogram {
	hv.mu.RLock()
	h, ok := hv.histograms[labels]
	hv.mu.RUnlock()

	if ok {
		return h
	}

	hv.mu.Lock()
	defer hv.mu.Unlock()

	// Double-check after acquiring write lock
	if h, ok := hv.histograms[labels]; ok {
		return h
	}

	h = NewHistogram()
	hv.histograms[labels] = h
	return h
}

// Snapshot returns snapshots of all histograms.
func (hv *HistogramVec) Snapshot() map[string]HistogramSnapshot {
	hv.mu.RLock()
	defer hv.mu.RUnlock()

	snapshot := make(map[string]HistogramSnapshot, len(hv.histograms))
	for label, h := range hv.histograms {
		snapshot[label] = h.Snapshot()
	}
	return snapshot
}

// Counter is a monotonically increasing counter using atomic operations.
type Counter struct {
	value int64
}

// NewCounter creates a new counter.
func NewCounter() *Counter {
	return &Counter{}
}

// Inc increments the counter by 1.
func (c *Counter) Inc() {
	atomic.AddInt64(&c.value, 1)
}

// Add adds the given value to the counter.
func (c *Counter) Add(delta int64) {
	atomic.AddInt64(&c.value, delta)
}

// Get returns the current value.
func (c *Counter) Get() int64 {
	return atomic.LoadInt64(&c.value)
}

// CounterVec is a collection of counters with labels.
type CounterVec struct {
	mu       sync.RWMutex
	counters map[string]*Counter
}

// NewCounterVec creates a new counter vector.
func NewCounterVec() *CounterVec {
	return &CounterVec{
		counters: make(map[string]*Counter),
	}
}

// WithLabels returns a counter for the given label string.
func (cv *CounterVec) WithLabels(labels string) *Counter {
	cv.mu.RLock()
	c, ok := cv.counters[labels]
	cv.mu.RUnlock()

	if ok {
		return c
	}

	cv.mu.Lock()
	defer cv.mu.Unlock()

	// Double-check after acquiring write lock
	if c, ok := cv.counters[labels]; ok {
		return c
	}

	c = NewCounter()
	cv.counters[labels] = c
	return c
}

// Snapshot returns the current values of all counters.
func (cv *CounterVec) Snapshot() map[string]int64 {
	cv.mu.RLock()
	defer cv.mu.RUnlock()

	snapshot := make(map[string]int64, len(cv.counters))
	for label, c := range cv.counters {
		snapshot[label] = c.Get()
	}
	return snapshot
}

// AtomicGauge is a gauge that can be set and read atomically.
type AtomicGauge struct {
	value int64
}

// NewAtomicGauge creates a new atomic gauge.
func NewAtomicGauge() *AtomicGauge {
	return &AtomicGauge{}
}

// Set sets the gauge to the given value.
func (g *AtomicGauge) Set(val int64) {
	atomic.StoreInt64(&g.value, val)
}

// Inc increments the gauge by 1.
func (g *AtomicGauge) Inc() {
	atomic.AddInt64(&g.value, 1)
}

// Dec decrements the gauge by 1.
func (g *AtomicGauge) Dec() {
	atomic.AddInt64(&g.value, -1)
}

// Get returns the current value.
func (g *AtomicGauge) Get() int64 {
	return atomic.LoadInt64(&g.value)
}

// ServeHTTP implements http.Handler for metrics exposition.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := m.Snapshot()

	// Support both JSON and text format
	format := r.URL.Query().Get("format")
	if format == "json" || r.Header.Get("Accept") == "application/json" {
		w.Header().Set("Content-Type", "application/json")
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.Encode(snapshot)
		return
	}

	// Default: human-readable text format
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	fmt.Fprintf(w, "# prodplan Performance Metrics\n\n")

	fmt.Fprintf(w, "## Database Metrics\n\n")
	writeHistogramSummary(w, "DB Transaction Begin", snapshot.DBTransactionBegin)
	writeHistogramSummary(w, "DB Transaction Commit", snapshot.DBTransactionCommit)
	fmt.Fprintf(w, "DB Active Transactions: %d\n\n", snapshot.DBActiveTransactions)

	fmt.Fprintf(w, "## Service Metrics\n\n")
	for op, h := range snapshot.ServiceOpDuration {
		writeHistogramSummary(w, "Op "+op, h)
	}
	fmt.Fprintf(w, "Plans Created: %d\n", snapshot.PlansCreated)
	fmt.Fprintf(w, "Plans Deleted: %d\n", snapshot.PlansDeleted)
	fmt.Fprintf(w, "Adjustments Applied: %d\n", snapshot.AdjustmentsApplied)
	fmt.Fprintf(w, "Production Reads: %d\n\n", snapshot.ProductionReads)

	fmt.Fprintf(w, "## Transport Metrics\n\n")
	for label, count := range snapshot.HTTPResponses {
		fmt.Fprintf(w, "HTTP %s: %d\n", label, count)
	}
}

func writeHistogramSummary(w http.ResponseWriter, name string, h HistogramSnapshot) {
	if h.Count == 0 {
		fmt.Fprintf(w, "%s: no observations\n", name)
		return
	}
	fmt.Fprintf(w, "%s: count=%d mean=%v p50=%v p95=%v p99=%v max=%v\n",
		name, h.Count, h.Mean, h.P50, h.P95, h.P99, h.Max)
}
