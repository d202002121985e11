package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/event"
	"github.com/homefinder/loancalc/internal/domain/model"
)

func newEMIUseCase(repo *mockCalculationRepository, pub *mockEventPublisher, cache *mockResultCache, metrics *mockMetrics) *usecase.CalculateEMIUseCase {
	return usecase.NewCalculateEMIUseCase(repo, pub, cache, metrics, nil)
}

func TestCalculateEMIUseCase_Execute(t *testing.T) {
	req := dto.CalculateEMIRequest{
		OwnerID:           "user-001",
		Principal:         5_000_000,
		AnnualRatePercent: 8.5,
		TermYears:         20,
	}

	t.Run("computes, caches, records and publishes", func(t *testing.T) {
		repo := &mockCalculationRepository{}
		pub := &mockEventPublisher{}
		cache := newMockResultCache()
		metrics := &mockMetrics{}

		resp, err := newEMIUseCase(repo, pub, cache, metrics).Execute(context.Background(), req)
		require.NoError(t, err)

		assert.InDelta(t, 43_391, resp.MonthlyPayment, 1)
		assert.InDelta(t, 5_413_840, resp.TotalInterest, 100)
		assert.Equal(t, 240, resp.Months)
		assert.False(t, resp.Cached)
		assert.Empty(t, resp.Schedule)
		assert.Empty(t, resp.Yearly)

		require.Len(t, repo.saved, 1)
		assert.Equal(t, resp.CalculationID, repo.saved[0].ID())
		assert.Equal(t, "user-001", repo.saved[0].OwnerID())

		require.Len(t, pub.published, 1)
		assert.Equal(t, event.TypeEMICalculated, pub.published[0].EventType())

		assert.Equal(t, 1, cache.sets)
		assert.Equal(t, []metricCall{{kind: model.KindEMI, cached: false}}, metrics.calls)
	})

	t.Run("serves repeat inputs from the cache", func(t *testing.T) {
		cache := newMockResultCache()
		metrics := &mockMetrics{}
		uc := newEMIUseCase(&mockCalculationRepository{}, &mockEventPublisher{}, cache, metrics)

		first, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		second, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		assert.True(t, second.Cached)
		assert.Equal(t, first.MonthlyPayment, second.MonthlyPayment)
		assert.Equal(t, 1, cache.sets)
		assert.Equal(t, metricCall{kind: model.KindEMI, cached: true}, metrics.calls[1])
	})

	t.Run("includes schedule and yearly summary on request", func(t *testing.T) {
		withDetail := req
		withDetail.IncludeSchedule = true
		withDetail.IncludeYearly = true

		resp, err := newEMIUseCase(&mockCalculationRepository{}, &mockEventPublisher{}, newMockResultCache(), &mockMetrics{}).
			Execute(context.Background(), withDetail)
		require.NoError(t, err)

		require.Len(t, resp.Schedule, 240)
		assert.Equal(t, 1, resp.Schedule[0].Month)
		assert.InDelta(t, 0, resp.Schedule[239].Balance, 1e-6)
		require.Len(t, resp.Yearly, 20)
		assert.InDelta(t, 0, resp.Yearly[19].ClosingBalance, 1e-6)
	})

	t.Run("rejects invalid inputs before touching dependencies", func(t *testing.T) {
		repo := &mockCalculationRepository{}
		cache := newMockResultCache()
		bad := req
		bad.TermYears = 0

		_, err := newEMIUseCase(repo, &mockEventPublisher{}, cache, &mockMetrics{}).Execute(context.Background(), bad)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Empty(t, repo.saved)
		assert.Zero(t, cache.sets)
	})

	t.Run("history, cache and publish failures do not fail the calculation", func(t *testing.T) {
		repo := &mockCalculationRepository{
			saveFunc: func(context.Context, model.Calculation) error { return errors.New("db down") },
		}
		pub := &mockEventPublisher{
			publishFunc: func(context.Context, ...event.DomainEvent) error { return errors.New("broker down") },
		}
		cache := newMockResultCache()
		cache.getErr = errors.New("redis down")
		cache.setErr = errors.New("redis down")

		resp, err := newEMIUseCase(repo, pub, cache, &mockMetrics{}).Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Empty(t, resp.CalculationID, "id is only reported for stored records")
		assert.InDelta(t, 43_391, resp.MonthlyPayment, 1)
	})
}

func TestEMICacheKey(t *testing.T) {
	a := usecase.EMICacheKey(model.LoanInputs{Principal: 100000, AnnualRatePercent: 8.5, TermYears: 10})
	b := usecase.EMICacheKey(model.LoanInputs{Principal: 100000.0, AnnualRatePercent: 8.50, TermYears: 10})
	c := usecase.EMICacheKey(model.LoanInputs{Principal: 100000, AnnualRatePercent: 8.5, TermYears: 11})

	assert.Equal(t, "emi:v1:100000:8.5:10", a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
