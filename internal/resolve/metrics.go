package resolve

import "sync/atomic"

// Metrics tracks resolution outcomes.
type Metrics struct {
	resolutions int64
	fallbacks   int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot.
func GetMetrics() Metrics {
	return Metrics{
		resolutions: atomic.LoadInt64(&globalMetrics.resolutions),
		fallbacks:   atomic.LoadInt64(&globalMetrics.fallbacks),
	}
}

// ResetMetrics resets all metrics (useful for testing).
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.resolutions, 0)
	atomic.StoreInt64(&globalMetrics.fallbacks, 0)
}

func recordResolution() {
	atomic.AddInt64(&globalMetrics.resolutions, 1)
}

func recordFallback() {
	atomic.AddInt64(&globalMetrics.fallbacks, 1)
}

// Resolutions returns the number of successful resolutions.
func (m Metrics) Resolutions() int64 { return m.resolutions }

// Fallbacks returns the number of degraded resolutions.
func (m Metrics) Fallbacks() int64 { return m.fallbacks }
