package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/internal/domain/service"
)

// CheckEligibilityUseCase scores a borrower profile and records the assessment.
type CheckEligibilityUseCase struct {
	scorer  *service.EligibilityScorer
	metrics port.CalculationMetrics
	history historyRecorder
	now     func() time.Time
}

// NewCheckEligibilityUseCase wires dependencies.
func NewCheckEligibilityUseCase(
	scorer *service.EligibilityScorer,
	repo port.CalculationRepository,
	publisher port.EventPublisher,
	metrics port.CalculationMetrics,
	logger *slog.Logger,
) *CheckEligibilityUseCase {
	return &CheckEligibilityUseCase{
		scorer:  scorer,
		metrics: metrics,
		history: historyRecorder{repo: repo, publisher: publisher, logger: loggerOrDefault(logger)},
		now:     time.Now,
	}
}

// Execute validates the profile, runs the scorer and stores the outcome.
func (uc *CheckEligibilityUseCase) Execute(ctx context.Context, req dto.CheckEligibilityRequest) (dto.EligibilityResponse, error) {
	in, err := req.EligibilityInputs()
	if err != nil {
		return dto.EligibilityResponse{}, err
	}

	res, err := uc.scorer.Compute(in)
	if err != nil {
		return dto.EligibilityResponse{}, err
	}

	calc, err := model.NewEligibilityCalculation(req.OwnerID, in, res, uc.now())
	if err != nil {
		return dto.EligibilityResponse{}, err
	}
	id := uc.history.record(ctx, &calc)

	uc.metrics.Record(ctx, model.KindEligibility, false)

	return toEligibilityResponse(id, res), nil
}

func toEligibilityResponse(id string, res model.EligibilityResult) dto.EligibilityResponse {
	b := res.Breakdown
	return dto.EligibilityResponse{
		CalculationID:    id,
		MaxLoanAmount:    res.MaxLoanAmount,
		RecommendedEMI:   res.RecommendedEMI,
		EligibilityScore: res.EligibilityScore,
		Recommendations:  res.Recommendations,
		Breakdown: dto.EligibilityBreakdownResponse{
			DisposableIncome: b.DisposableIncome,
			MaxEMIRatio:      b.MaxEMIRatio,
			MaxAffordableEMI: b.MaxAffordableEMI,
			CreditMultiplier: b.CreditMultiplier,
			CreditScore:      b.CreditScore,
			Age:              b.Age,
			TenureYears:      b.TenureYears,
			TenureClamped:    b.TenureClamped,
		},
	}
}
