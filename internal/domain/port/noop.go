package port

import (
	"context"

	"github.com/homefinder/loancalc/internal/domain/event"
	"github.com/homefinder/loancalc/internal/domain/model"
)

// NoopCache never hits and discards writes.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (model.EMIResult, bool, error) {
	return model.EMIResult{}, false, nil
}

func (NoopCache) Set(context.Context, string, model.EMIResult) error { return nil }

// NoopPublisher drops events. Used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...event.DomainEvent) error { return nil }

// NoopMetrics ignores measurements.
type NoopMetrics struct{}

func (NoopMetrics) Record(context.Context, model.CalculationKind, bool) {}
