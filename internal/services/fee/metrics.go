package fee

import "time"

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordCalculation(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordFallback(string)                   {}
func (n *NoopMetricsCollector) RecordCacheHit()                         {}
func (n *NoopMetricsCollector) RecordCacheMiss()                        {}
