// ============================================================================
// Metrics
// Responsibility: collect and expose Prometheus metrics for the workload
// run — I/O volume, latency, and verification outcomes by failure kind.
// ============================================================================

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure kind labels for verify_failures_total.
const (
	KindCorruptHeader    = "corrupt_header"
	KindUnsupportedAlgo  = "unsupported_algorithm"
	KindChecksumMismatch = "checksum_mismatch"
	KindIOError          = "io_error"
)

// Collector holds the run's Prometheus metrics.
type Collector struct {
	writesIssued prometheus.Counter
	readsIssued  prometheus.Counter
	bytesWritten prometheus.Counter
	bytesRead    prometheus.Counter

	verifyOK       prometheus.Counter
	verifyFailures *prometheus.CounterVec

	ioLatency prometheus.Histogram

	workersActive  prometheus.Gauge
	historyPending prometheus.Gauge
}

// NewCollector creates and registers the collector with the default
// registry.
func NewCollector() *Collector {
	c := &Collector{
		writesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hammer_writes_issued_total",
			Help: "Total number of write operations issued",
		}),
		readsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hammer_reads_issued_total",
			Help: "Total number of read operations issued",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hammer_bytes_written_total",
			Help: "Total bytes written to the target",
		}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hammer_bytes_read_total",
			Help: "Total bytes read back from the target",
		}),
		verifyOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hammer_verify_ok_total",
			Help: "Total number of buffers that passed verification",
		}),
		verifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hammer_verify_failures_total",
			Help: "Total verification failures by kind",
		}, []string{"kind"}),
		ioLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hammer_io_latency_seconds",
			Help:    "Latency of individual I/O operations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 16),
		}),
		workersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hammer_workers_active",
			Help: "Current number of running workers",
		}),
		historyPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hammer_history_pending",
			Help: "Writes recorded but not yet verified, across all workers",
		}),
	}

	prometheus.MustRegister(c.writesIssued)
	prometheus.MustRegister(c.readsIssued)
	prometheus.MustRegister(c.bytesWritten)
	prometheus.MustRegister(c.bytesRead)
	prometheus.MustRegister(c.verifyOK)
	prometheus.MustRegister(c.verifyFailures)
	prometheus.MustRegister(c.ioLatency)
	prometheus.MustRegister(c.workersActive)
	prometheus.MustRegister(c.historyPending)

	return c
}

// RecordWrite records one completed write of n bytes.
func (c *Collector) RecordWrite(n int, latencySeconds float64) {
	c.writesIssued.Inc()
	c.bytesWritten.Add(float64(n))
	c.ioLatency.Observe(latencySeconds)
}

// RecordRead records one completed read of n bytes.
func (c *Collector) RecordRead(n int, latencySeconds float64) {
	c.readsIssued.Inc()
	c.bytesRead.Add(float64(n))
	c.ioLatency.Observe(latencySeconds)
}

// RecordVerifyOK records one buffer passing verification.
func (c *Collector) RecordVerifyOK() {
	c.verifyOK.Inc()
}

// RecordVerifyFailure records one verification failure of the given kind.
func (c *Collector) RecordVerifyFailure(kind string) {
	c.verifyFailures.WithLabelValues(kind).Inc()
}

// SetWorkersActive updates the running-worker gauge.
func (c *Collector) SetWorkersActive(n int) {
	c.workersActive.Set(float64(n))
}

// AddHistoryPending moves the pending-verification gauge by delta.
func (c *Collector) AddHistoryPending(delta int) {
	c.historyPending.Add(float64(delta))
}

// StartServer starts the Prometheus metrics HTTP server on the given port.
// Blocks; run it in its own goroutine.
func StartServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, nil)
}
