package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/event"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

func TestExportScheduleUseCase_Execute(t *testing.T) {
	req := dto.ExportScheduleRequest{
		OwnerID:           "user-001",
		Principal:         1_000_000,
		AnnualRatePercent: 9,
		TermYears:         5,
	}

	t.Run("renders, uploads and presigns the schedule", func(t *testing.T) {
		renderer := &mockRenderer{
			renderFunc: func(res model.EMIResult, _ port.RenderOptions) ([]byte, error) {
				assert.Len(t, res.Schedule, 60)
				return []byte("sheet"), nil
			},
		}
		store := newMockObjectStore()
		pub := &mockEventPublisher{}
		uc := usecase.NewExportScheduleUseCase(renderer, store, pub, 10*time.Minute, nil)

		before := time.Now().UTC()
		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(resp.ObjectKey, "schedules/user-001/"))
		assert.True(t, strings.HasSuffix(resp.ObjectKey, ".xlsx"))
		assert.Equal(t, usecase.ExportObjectKey("user-001", resp.ExportID, "xlsx"), resp.ObjectKey)
		assert.Equal(t, []byte("sheet"), store.objects[resp.ObjectKey])
		assert.Contains(t, resp.URL, resp.ObjectKey)
		assert.Equal(t, int64(5), resp.SizeBytes)
		assert.WithinDuration(t, before.Add(10*time.Minute), resp.ExpiresAt, 5*time.Second)

		assert.Equal(t, "INR", renderer.lastOpts.Currency)
		assert.Equal(t, "en-IN", renderer.lastOpts.Locale)

		require.Len(t, pub.published, 1)
		exported := pub.published[0].(event.ScheduleExported)
		assert.Equal(t, event.TypeScheduleExported, exported.EventType())
		assert.Equal(t, resp.ObjectKey, exported.ObjectKey)
		assert.Equal(t, 60, exported.Months)
	})

	t.Run("requires an owner", func(t *testing.T) {
		uc := usecase.NewExportScheduleUseCase(&mockRenderer{}, newMockObjectStore(), &mockEventPublisher{}, 0, nil)

		anonymous := req
		anonymous.OwnerID = ""
		_, err := uc.Execute(context.Background(), anonymous)
		assert.ErrorIs(t, err, usecase.ErrOwnerRequired)
	})

	t.Run("rejects an unknown currency", func(t *testing.T) {
		uc := usecase.NewExportScheduleUseCase(&mockRenderer{}, newMockObjectStore(), &mockEventPublisher{}, 0, nil)

		bad := req
		bad.Currency = "ZZZ"
		_, err := uc.Execute(context.Background(), bad)

		var invalid *model.InvalidInputError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "currency", invalid.Field)
	})

	t.Run("fails when the upload fails", func(t *testing.T) {
		store := newMockObjectStore()
		store.putErr = errors.New("bucket missing")
		pub := &mockEventPublisher{}
		uc := usecase.NewExportScheduleUseCase(&mockRenderer{}, store, pub, 0, nil)

		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "upload schedule")
		assert.Empty(t, pub.published)
	})

	t.Run("a publish failure still returns the link", func(t *testing.T) {
		pub := &mockEventPublisher{
			publishFunc: func(context.Context, ...event.DomainEvent) error { return errors.New("broker down") },
		}
		uc := usecase.NewExportScheduleUseCase(&mockRenderer{}, newMockObjectStore(), pub, 0, nil)

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.URL)
	})
}
