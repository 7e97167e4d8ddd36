package api

import (
	"sync/atomic"
	"time"
)

// Metrics tracks remote store call counters.
type Metrics struct {
	remoteCalls   int64
	remoteErrors  int64
	remoteLatency int64 // Total latency in nanoseconds
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot.
func GetMetrics() Metrics {
	return Metrics{
		remoteCalls:   atomic.LoadInt64(&globalMetrics.remoteCalls),
		remoteErrors:  atomic.LoadInt64(&globalMetrics.remoteErrors),
		remoteLatency: atomic.LoadInt64(&globalMetrics.remoteLatency),
	}
}

// ResetMetrics resets all metrics (useful for testing).
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.remoteCalls, 0)
	atomic.StoreInt64(&globalMetrics.remoteErrors, 0)
	atomic.StoreInt64(&globalMetrics.remoteLatency, 0)
}

// recordRemoteCall records a store call. Only transport-level failures
// count as errors; a 404 is a normal store answer.
func recordRemoteCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.remoteCalls, 1)
	atomic.AddInt64(&globalMetrics.remoteLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.remoteErrors, 1)
	}
}

// Calls returns the total number of store calls.
func (m Metrics) Calls() int64 { return m.remoteCalls }

// AverageLatency returns the average call latency in milliseconds.
func (m Metrics) AverageLatency() float64 {
	if m.remoteCalls == 0 {
		return 0
	}
	avgNs := float64(m.remoteLatency) / float64(m.remoteCalls)
	return avgNs / 1e6
}

// ErrorRate returns the error rate as a percentage.
func (m Metrics) ErrorRate() float64 {
	if m.remoteCalls == 0 {
		return 0
	}
	return float64(m.remoteErrors) / float64(m.remoteCalls) * 100
}
