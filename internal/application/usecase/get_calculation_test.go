package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

func storedCalculation(id, owner string) model.Calculation {
	return model.ReconstructCalculation(
		id, owner, model.KindEMI,
		[]byte(`{"principal":100000,"annual_rate_percent":9,"term_years":5}`),
		[]byte(`{"monthly_payment":2075.84}`),
		time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	)
}

func TestGetCalculationUseCase_Execute(t *testing.T) {
	repo := &mockCalculationRepository{
		findByIDFunc: func(_ context.Context, id string) (model.Calculation, error) {
			if id == "calc-001" {
				return storedCalculation("calc-001", "user-001"), nil
			}
			return model.Calculation{}, port.ErrNotFound
		},
	}
	uc := usecase.NewGetCalculationUseCase(repo)

	t.Run("successfully retrieves an owned record", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.GetCalculationRequest{OwnerID: "user-001", ID: "calc-001"})
		require.NoError(t, err)
		assert.Equal(t, "calc-001", resp.ID)
		assert.Equal(t, "emi", resp.Kind)
		assert.JSONEq(t, `{"monthly_payment":2075.84}`, string(resp.Result))
	})

	t.Run("hides records owned by someone else", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.GetCalculationRequest{OwnerID: "user-002", ID: "calc-001"})
		assert.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("fails when the record does not exist", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.GetCalculationRequest{OwnerID: "user-001", ID: "calc-999"})
		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrNotFound)
		assert.Contains(t, err.Error(), "find calculation")
	})

	t.Run("requires an owner", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.GetCalculationRequest{ID: "calc-001"})
		assert.ErrorIs(t, err, usecase.ErrOwnerRequired)
	})
}

func TestListCalculationsUseCase_Execute(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "defaults the limit", limit: 0, wantLimit: usecase.DefaultHistoryLimit},
		{name: "keeps a reasonable limit", limit: 5, wantLimit: 5},
		{name: "caps an oversized limit", limit: 10_000, wantLimit: usecase.MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCalculationRepository{
				listByOwnerFunc: func(_ context.Context, ownerID string, limit int) ([]model.Calculation, error) {
					assert.Equal(t, "user-001", ownerID)
					assert.Equal(t, tt.wantLimit, limit)
					return []model.Calculation{
						storedCalculation("calc-002", "user-001"),
						storedCalculation("calc-001", "user-001"),
					}, nil
				},
			}

			resp, err := usecase.NewListCalculationsUseCase(repo).
				Execute(context.Background(), dto.ListCalculationsRequest{OwnerID: "user-001", Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, 2, resp.Count)
			assert.Equal(t, "calc-002", resp.Items[0].ID)
		})
	}
}
