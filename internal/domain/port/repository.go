package port

import (
	"context"
	"errors"
	"time"

	"github.com/homefinder/loancalc/internal/domain/event"
	"github.com/homefinder/loancalc/internal/domain/model"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("not found")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CalculationRepository persists and retrieves calculation history.
type CalculationRepository interface {
	Save(ctx context.Context, calc model.Calculation) error
	FindByID(ctx context.Context, id string) (model.Calculation, error)
	// ListByOwner returns the newest records first.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.Calculation, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Cache, export and metrics ports
// ---------------------------------------------------------------------------

// ResultCache stores computed EMI results keyed by canonical inputs.
// Get reports a miss with ok=false and a nil error.
type ResultCache interface {
	Get(ctx context.Context, key string) (res model.EMIResult, ok bool, err error)
	Set(ctx context.Context, key string, res model.EMIResult) error
}

// RenderOptions controls how a schedule is rendered for export.
type RenderOptions struct {
	Currency string
	Locale   string
	Title    string
}

// ScheduleRenderer turns a computed schedule into a downloadable document.
type ScheduleRenderer interface {
	Render(res model.EMIResult, opts RenderOptions) ([]byte, error)
	ContentType() string
	Extension() string
}

// ObjectStore uploads export artefacts and hands out temporary download links.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// CalculationMetrics counts completed calculations.
type CalculationMetrics interface {
	Record(ctx context.Context, kind model.CalculationKind, cached bool)
}
