package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/service"
	"github.com/homefinder/loancalc/pkg/money"
)

func TestShareSummaryUseCase_EMI(t *testing.T) {
	uc := usecase.NewShareSummaryUseCase(service.NewEligibilityScorer())
	req := dto.EMISummaryRequest{
		CalculateEMIRequest: dto.CalculateEMIRequest{Principal: 5_000_000, AnnualRatePercent: 8.5, TermYears: 20},
		Currency:            "USD",
		Locale:              "en-US",
	}

	resp, err := uc.EMI(context.Background(), req)
	require.NoError(t, err)

	res, err := model.ComputeEMI(5_000_000, 8.5, 20)
	require.NoError(t, err)
	f, err := money.NewFormatter("USD", "en-US")
	require.NoError(t, err)

	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "en-US", resp.Locale)
	assert.Contains(t, resp.Text, "Monthly EMI: "+f.Amount(res.MonthlyPayment))
	assert.Contains(t, resp.Text, "Tenure: 20 years (240 months)")
	assert.Contains(t, resp.Text, "Interest rate: 8.50% p.a.")
}

func TestShareSummaryUseCase_Eligibility(t *testing.T) {
	uc := usecase.NewShareSummaryUseCase(service.NewEligibilityScorer())

	t.Run("lists every recommendation", func(t *testing.T) {
		req := dto.EligibilitySummaryRequest{CheckEligibilityRequest: referenceProfile()}
		req.CreditScore = 640

		resp, err := uc.Eligibility(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "INR", resp.Currency)
		assert.Contains(t, resp.Text, "Eligibility score: ")
		assert.Contains(t, resp.Text, "\n- "+service.AdviceImproveCredit)
	})

	t.Run("rejects an invalid locale", func(t *testing.T) {
		req := dto.EligibilitySummaryRequest{CheckEligibilityRequest: referenceProfile(), Locale: "not a locale!"}

		_, err := uc.Eligibility(context.Background(), req)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}
