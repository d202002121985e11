// Package metrics records calculator usage through OpenTelemetry.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

var _ port.CalculationMetrics = (*CalculationMetrics)(nil)

// CalculationMetrics implements port.CalculationMetrics with an OTel counter.
type CalculationMetrics struct {
	calculations metric.Int64Counter
}

// NewCalculationMetrics registers the loancalc.calculations counter on meter.
func NewCalculationMetrics(meter metric.Meter) (*CalculationMetrics, error) {
	counter, err := meter.Int64Counter("loancalc.calculations",
		metric.WithDescription("Completed calculations by kind and cache outcome."),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create calculations counter: %w", err)
	}
	return &CalculationMetrics{calculations: counter}, nil
}

func (m *CalculationMetrics) Record(ctx context.Context, kind model.CalculationKind, cached bool) {
	m.calculations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.Bool("cached", cached),
	))
}
