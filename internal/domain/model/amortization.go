package model

import (
	"fmt"
	"math"
)

// LoanInputs describes a fixed-rate, fixed-term loan.
type LoanInputs struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermYears         int     `json:"term_years"`
}

// Upper bounds on loan inputs. A 30-year term caps a schedule at 360 rows.
const (
	MaxTermYears         = 30
	MaxAnnualRatePercent = 100
)

// Validate reports the first field that is non-positive or out of range.
func (in LoanInputs) Validate() error {
	switch {
	case !(in.Principal > 0) || math.IsInf(in.Principal, 0):
		return invalid("principal", "must be greater than zero")
	case !(in.AnnualRatePercent > 0) || math.IsInf(in.AnnualRatePercent, 0):
		return invalid("annual_rate_percent", "must be greater than zero")
	case in.AnnualRatePercent > MaxAnnualRatePercent:
		return invalid("annual_rate_percent", fmt.Sprintf("must not exceed %d", MaxAnnualRatePercent))
	case in.TermYears <= 0:
		return invalid("term_years", "must be greater than zero")
	case in.TermYears > MaxTermYears:
		return invalid("term_years", fmt.Sprintf("must not exceed %d", MaxTermYears))
	}
	return nil
}

// ScheduleEntry is one month of an amortization schedule.
type ScheduleEntry struct {
	Month            int     `json:"month"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"balance"`
}

// EMIResult is the outcome of ComputeEMI. Amounts are unrounded; rounding is
// a display concern.
type EMIResult struct {
	Inputs         LoanInputs      `json:"inputs"`
	MonthlyPayment float64         `json:"monthly_payment"`
	TotalPayment   float64         `json:"total_payment"`
	TotalInterest  float64         `json:"total_interest"`
	Schedule       []ScheduleEntry `json:"schedule"`
}

// ComputeEMI computes the equal monthly instalment and the full monthly
// amortization schedule.
//
// The calculation uses:
//
//	r   = annualRatePercent / 100 / 12
//	n   = termYears * 12
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)
//
// Each period pays interest on the running balance and the remainder of the
// instalment reduces principal. The balance is clamped at zero so floating
// point drift in the final period never reports a negative balance.
func ComputeEMI(principal, annualRatePercent float64, termYears int) (EMIResult, error) {
	in := LoanInputs{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermYears:         termYears,
	}
	if err := in.Validate(); err != nil {
		return EMIResult{}, err
	}

	r := MonthlyRate(annualRatePercent)
	n := termYears * 12
	emi := Instalment(principal, r, n)
	if math.IsInf(emi, 0) || math.IsNaN(emi) {
		return EMIResult{}, invalid("principal", "is too large")
	}

	schedule := make([]ScheduleEntry, 0, n)
	balance := principal
	for month := 1; month <= n; month++ {
		interest := balance * r
		principalPart := emi - interest
		balance = math.Max(0, balance-principalPart)

		schedule = append(schedule, ScheduleEntry{
			Month:            month,
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: balance,
		})
	}

	totalPayment := emi * float64(n)
	return EMIResult{
		Inputs:         in,
		MonthlyPayment: emi,
		TotalPayment:   totalPayment,
		TotalInterest:  totalPayment - principal,
		Schedule:       schedule,
	}, nil
}

// MonthlyRate converts an annual percentage rate to a monthly fraction.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// Instalment is the closed-form EMI for a monthly rate r over n months.
// Rates too small to move (1+r)^n fall back to the zero-rate limit P/n.
func Instalment(principal, r float64, n int) float64 {
	growth, ok := compoundGrowth(r, n)
	if !ok {
		return principal / float64(n)
	}
	return principal * r * (1 + growth) / growth
}

// PresentValue inverts Instalment: the principal a monthly payment of emi
// amortizes over n months at monthly rate r.
func PresentValue(emi, r float64, n int) float64 {
	growth, ok := compoundGrowth(r, n)
	if !ok {
		return emi * float64(n)
	}
	return emi * growth / (r * (1 + growth))
}

// compoundGrowth returns (1+r)^n - 1 without the cancellation of computing
// the power first. ok is false when the growth is zero or not finite.
func compoundGrowth(r float64, n int) (float64, bool) {
	growth := math.Expm1(float64(n) * math.Log1p(r))
	if growth == 0 || math.IsInf(growth, 0) || math.IsNaN(growth) {
		return 0, false
	}
	return growth, true
}

// YearlySummary aggregates twelve schedule entries.
type YearlySummary struct {
	Year           int     `json:"year"`
	PrincipalPaid  float64 `json:"principal_paid"`
	InterestPaid   float64 `json:"interest_paid"`
	ClosingBalance float64 `json:"closing_balance"`
}

// SummarizeByYear groups a monthly schedule into loan years. A trailing
// partial year is reported as its own entry.
func SummarizeByYear(schedule []ScheduleEntry) []YearlySummary {
	if len(schedule) == 0 {
		return nil
	}

	years := make([]YearlySummary, 0, (len(schedule)+11)/12)
	for i, e := range schedule {
		if i%12 == 0 {
			years = append(years, YearlySummary{Year: i/12 + 1})
		}
		y := &years[len(years)-1]
		y.PrincipalPaid += e.Principal
		y.InterestPaid += e.Interest
		y.ClosingBalance = e.RemainingBalance
	}
	return years
}
