package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/domain/event"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

// DefaultExportURLTTL is how long a presigned download link stays valid.
const DefaultExportURLTTL = 15 * time.Minute

// ExportScheduleUseCase renders the full schedule, uploads it and returns a
// temporary download link.
type ExportScheduleUseCase struct {
	renderer  port.ScheduleRenderer
	store     port.ObjectStore
	publisher port.EventPublisher
	urlTTL    time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewExportScheduleUseCase wires dependencies. A non-positive ttl selects
// DefaultExportURLTTL.
func NewExportScheduleUseCase(
	renderer port.ScheduleRenderer,
	store port.ObjectStore,
	publisher port.EventPublisher,
	urlTTL time.Duration,
	logger *slog.Logger,
) *ExportScheduleUseCase {
	if urlTTL <= 0 {
		urlTTL = DefaultExportURLTTL
	}
	return &ExportScheduleUseCase{
		renderer:  renderer,
		store:     store,
		publisher: publisher,
		urlTTL:    urlTTL,
		logger:    loggerOrDefault(logger),
		now:       time.Now,
	}
}

// Execute renders and uploads the schedule. Unlike history writes, a failed
// upload fails the request.
func (uc *ExportScheduleUseCase) Execute(ctx context.Context, req dto.ExportScheduleRequest) (dto.ExportResponse, error) {
	if req.OwnerID == "" {
		return dto.ExportResponse{}, ErrOwnerRequired
	}
	in := req.LoanInputs()
	if err := in.Validate(); err != nil {
		return dto.ExportResponse{}, err
	}
	f, err := newFormatter(req.Currency, req.Locale)
	if err != nil {
		return dto.ExportResponse{}, err
	}

	res, err := model.ComputeEMI(in.Principal, in.AnnualRatePercent, in.TermYears)
	if err != nil {
		return dto.ExportResponse{}, err
	}

	data, err := uc.renderer.Render(res, port.RenderOptions{
		Currency: f.Currency().Code(),
		Locale:   f.Locale(),
		Title:    req.Title,
	})
	if err != nil {
		return dto.ExportResponse{}, fmt.Errorf("render schedule: %w", err)
	}

	exportID := uuid.NewString()
	key := ExportObjectKey(req.OwnerID, exportID, uc.renderer.Extension())
	if err := uc.store.Put(ctx, key, data, uc.renderer.ContentType()); err != nil {
		return dto.ExportResponse{}, fmt.Errorf("upload schedule: %w", err)
	}

	url, err := uc.store.PresignGet(ctx, key, uc.urlTTL)
	if err != nil {
		return dto.ExportResponse{}, fmt.Errorf("presign schedule: %w", err)
	}

	exported := event.NewScheduleExported(exportID, req.OwnerID, key, uc.renderer.Extension(), len(res.Schedule), int64(len(data)))
	if err := uc.publisher.Publish(ctx, exported); err != nil {
		uc.logger.WarnContext(ctx, "publish export event failed", "export_id", exportID, "error", err)
	}

	return dto.ExportResponse{
		ExportID:    exportID,
		ObjectKey:   key,
		URL:         url,
		ContentType: uc.renderer.ContentType(),
		SizeBytes:   int64(len(data)),
		ExpiresAt:   uc.now().UTC().Add(uc.urlTTL),
	}, nil
}

// ExportObjectKey is the storage key for an export: schedules/{owner}/{id}.{ext}.
func ExportObjectKey(ownerID, exportID, ext string) string {
	return fmt.Sprintf("schedules/%s/%s.%s", ownerID, exportID, ext)
}
