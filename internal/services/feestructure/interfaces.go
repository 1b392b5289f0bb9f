package feestructure

import "context"

// RuleSetInvalidator drops a structure's cached rule set.
type RuleSetInvalidator interface {
	InvalidateRuleSet(ctx context.Context, structureID uint) error
}

// MetricsCollector defines the interface for collecting mutation metrics
type MetricsCollector interface {
	RecordMutation(operation, result string)
	RecordSkippedRules(count int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordMutation(string, string) {}
func (n *NoopMetricsCollector) RecordSkippedRules(int)        {}
