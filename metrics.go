package ifcb

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    openCounter   prometheus.Counter
//	    readHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordOpen(duration time.Duration, err error) {
//	    p.openCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordOpen is called after each bin open.
	// duration covers reading the record table and headers.
	RecordOpen(duration time.Duration, err error)

	// RecordImageRead is called after each final image read.
	// pixels is the image size, zero on error.
	RecordImageRead(pixels int, duration time.Duration, err error)

	// RecordStitch is called once per bin after split pairs are detected.
	RecordStitch(pairs int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(time.Duration, error)           {}
func (NoopMetricsCollector) RecordImageRead(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordStitch(int)                          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount      atomic.Int64
	OpenErrors     atomic.Int64
	OpenTotalNanos atomic.Int64
	ReadCount      atomic.Int64
	ReadErrors     atomic.Int64
	ReadPixels     atomic.Int64
	ReadTotalNanos atomic.Int64
	StitchBins     atomic.Int64
	StitchPairs    atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(duration time.Duration, err error) {
	b.OpenCount.Add(1)
	b.OpenTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordImageRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImageRead(pixels int, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	b.ReadPixels.Add(int64(pixels))
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// RecordStitch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStitch(pairs int) {
	b.StitchBins.Add(1)
	b.StitchPairs.Add(int64(pairs))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:    b.OpenCount.Load(),
		OpenErrors:   b.OpenErrors.Load(),
		OpenAvgNanos: avg(b.OpenTotalNanos.Load(), b.OpenCount.Load()),
		ReadCount:    b.ReadCount.Load(),
		ReadErrors:   b.ReadErrors.Load(),
		ReadPixels:   b.ReadPixels.Load(),
		ReadAvgNanos: avg(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		StitchBins:   b.StitchBins.Load(),
		StitchPairs:  b.StitchPairs.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount    int64
	OpenErrors   int64
	OpenAvgNanos int64
	ReadCount    int64
	ReadErrors   int64
	ReadPixels   int64
	ReadAvgNanos int64
	StitchBins   int64
	StitchPairs  int64
}
