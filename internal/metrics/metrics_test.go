package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestCollector() *Collector {
	// Reset the default registry so repeated NewCollector calls across
	// tests do not collide on registration.
	prometheus.DefaultRegisterer = prometheus.NewRegistry()
	return NewCollector()
}

func TestNewCollector(t *testing.T) {
	c := newTestCollector()

	assert.NotNil(t, c)
	assert.NotNil(t, c.writesIssued)
	assert.NotNil(t, c.readsIssued)
	assert.NotNil(t, c.verifyOK)
	assert.NotNil(t, c.verifyFailures)
	assert.NotNil(t, c.ioLatency)
}

func TestRecordIOCounters(t *testing.T) {
	c := newTestCollector()

	c.RecordWrite(4096, 0.001)
	c.RecordWrite(4096, 0.002)
	c.RecordRead(512, 0.001)

	assert.InDelta(t, 2, testutil.ToFloat64(c.writesIssued), 0.001)
	assert.InDelta(t, 8192, testutil.ToFloat64(c.bytesWritten), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(c.readsIssued), 0.001)
	assert.InDelta(t, 512, testutil.ToFloat64(c.bytesRead), 0.001)
}

func TestVerifyOutcomeCounters(t *testing.T) {
	c := newTestCollector()

	c.RecordVerifyOK()
	c.RecordVerifyFailure(KindChecksumMismatch)
	c.RecordVerifyFailure(KindChecksumMismatch)
	c.RecordVerifyFailure(KindCorruptHeader)

	assert.InDelta(t, 1, testutil.ToFloat64(c.verifyOK), 0.001)
	assert.InDelta(t, 2,
		testutil.ToFloat64(c.verifyFailures.WithLabelValues(KindChecksumMismatch)), 0.001)
	assert.InDelta(t, 1,
		testutil.ToFloat64(c.verifyFailures.WithLabelValues(KindCorruptHeader)), 0.001)
}

func TestGauges(t *testing.T) {
	c := newTestCollector()

	c.SetWorkersActive(4)
	assert.InDelta(t, 4, testutil.ToFloat64(c.workersActive), 0.001)

	c.AddHistoryPending(10)
	c.AddHistoryPending(-3)
	assert.InDelta(t, 7, testutil.ToFloat64(c.historyPending), 0.001)
}
