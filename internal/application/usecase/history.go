package usecase

import (
	"context"
	"log/slog"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

// historyRecorder persists a calculation and publishes the events it raised.
// Neither step can fail the calculation; errors are logged and the returned
// id is empty when the record was not stored.
type historyRecorder struct {
	repo      port.CalculationRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

func (h historyRecorder) record(ctx context.Context, calc *model.Calculation) string {
	id := calc.ID()
	if err := h.repo.Save(ctx, *calc); err != nil {
		h.logger.WarnContext(ctx, "save calculation failed",
			"calculation_id", id, "kind", calc.Kind(), "error", err)
		id = ""
	}
	if err := h.publisher.Publish(ctx, calc.ClearEvents()...); err != nil {
		h.logger.WarnContext(ctx, "publish calculation events failed",
			"calculation_id", calc.ID(), "kind", calc.Kind(), "error", err)
	}
	return id
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
