package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/service"
)

// ShareSummaryUseCase produces the plain-text summaries users copy or share.
// Nothing is persisted.
type ShareSummaryUseCase struct {
	scorer *service.EligibilityScorer
}

// NewShareSummaryUseCase wires dependencies.
func NewShareSummaryUseCase(scorer *service.EligibilityScorer) *ShareSummaryUseCase {
	return &ShareSummaryUseCase{scorer: scorer}
}

// EMI summarises an instalment calculation.
func (uc *ShareSummaryUseCase) EMI(_ context.Context, req dto.EMISummaryRequest) (dto.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return dto.SummaryResponse{}, err
	}
	f, err := newFormatter(req.Currency, req.Locale)
	if err != nil {
		return dto.SummaryResponse{}, err
	}
	in := req.LoanInputs()
	res, err := model.ComputeEMI(in.Principal, in.AnnualRatePercent, in.TermYears)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	var b strings.Builder
	b.WriteString("Home loan EMI summary\n")
	fmt.Fprintf(&b, "Loan amount: %s\n", f.Amount(in.Principal))
	fmt.Fprintf(&b, "Interest rate: %s p.a.\n", f.Percent(in.AnnualRatePercent))
	fmt.Fprintf(&b, "Tenure: %d years (%d months)\n", in.TermYears, len(res.Schedule))
	fmt.Fprintf(&b, "Monthly EMI: %s\n", f.Amount(res.MonthlyPayment))
	fmt.Fprintf(&b, "Total interest: %s\n", f.Amount(res.TotalInterest))
	fmt.Fprintf(&b, "Total payment: %s", f.Amount(res.TotalPayment))

	return dto.SummaryResponse{Text: b.String(), Currency: f.Currency().Code(), Locale: f.Locale()}, nil
}

// Eligibility summarises an assessment including its recommendations.
func (uc *ShareSummaryUseCase) Eligibility(_ context.Context, req dto.EligibilitySummaryRequest) (dto.SummaryResponse, error) {
	in, err := req.EligibilityInputs()
	if err != nil {
		return dto.SummaryResponse{}, err
	}
	f, err := newFormatter(req.Currency, req.Locale)
	if err != nil {
		return dto.SummaryResponse{}, err
	}
	res, err := uc.scorer.Compute(in)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	var b strings.Builder
	b.WriteString("Home loan eligibility summary\n")
	fmt.Fprintf(&b, "Eligibility score: %d/%d\n", res.EligibilityScore, service.MaxScore)
	fmt.Fprintf(&b, "Maximum loan amount: %s\n", f.Amount(res.MaxLoanAmount))
	fmt.Fprintf(&b, "Recommended EMI: %s\n", f.Amount(res.RecommendedEMI))
	fmt.Fprintf(&b, "Tenure considered: %d years at %s p.a.\n", res.Breakdown.TenureYears, f.Percent(service.AssumedAnnualRatePercent))
	b.WriteString("Recommendations:")
	for _, r := range res.Recommendations {
		b.WriteString("\n- " + r)
	}

	return dto.SummaryResponse{Text: b.String(), Currency: f.Currency().Code(), Locale: f.Locale()}, nil
}
