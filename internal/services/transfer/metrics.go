package transfer

import "github.com/shopspring/decimal"

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, decimal.Decimal) {}
func (n *NoopMetricsCollector) RecordCommission(decimal.Decimal)         {}
func (n *NoopMetricsCollector) RecordError(string, string)               {}
