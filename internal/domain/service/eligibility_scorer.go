package service

import (
	"math"

	"github.com/homefinder/loancalc/internal/domain/model"
)

// ---------------------------------------------------------------------------
// EligibilityScorer – domain service for affordability and scoring rules
// ---------------------------------------------------------------------------

// Policy constants. These are lending policy, not derived values.
const (
	DefaultCreditScore = 750
	DefaultAge         = 30

	MinCreditScore = 300
	MaxCreditScore = 900

	SalariedEMIRatio    = 0.5
	NonSalariedEMIRatio = 0.4

	// DisposableEMIShare caps the EMI at this share of disposable income.
	DisposableEMIShare = 0.6

	// AssumedAnnualRatePercent is the rate used to size the maximum loan.
	// It is independent of any rate the borrower is eventually offered.
	AssumedAnnualRatePercent = 8.5

	MaxTenureYears = 30
	RetirementAge  = 65
	MinTenureYears = 1

	MaxScore = 100
)

// tier is one row of an ordered, first-match-wins lookup table.
type tier[T any] struct {
	match func(int) bool
	value T
}

func atLeast(lo int) func(int) bool { return func(v int) bool { return v >= lo } }

func between(lo, hi int) func(int) bool { return func(v int) bool { return v >= lo && v <= hi } }

func always(int) bool { return true }

func lookup[T any](tiers []tier[T], v int) T {
	for _, t := range tiers {
		if t.match(v) {
			return t.value
		}
	}
	var zero T
	return zero
}

// Boundaries are inclusive on the lower side.
var creditMultiplierTiers = []tier[float64]{
	{match: atLeast(800), value: 1.2},
	{match: atLeast(750), value: 1.1},
	{match: atLeast(700), value: 1.0},
	{match: atLeast(650), value: 0.9},
	{match: always, value: 0.7},
}

var creditScorePoints = []tier[int]{
	{match: atLeast(750), value: 25},
	{match: atLeast(700), value: 20},
	{match: atLeast(650), value: 15},
	{match: always, value: 10},
}

// [25,45] is closed; the wider band is [18,55).
var agePoints = []tier[int]{
	{match: between(25, 45), value: 15},
	{match: between(18, 54), value: 10},
	{match: always, value: 5},
}

const (
	disposableIncomePoints = 30
	salariedPoints         = 20
	nonSalariedPoints      = 15
	debtHeadroomPoints     = 10
)

// EligibilityScorer estimates the largest affordable loan and a bounded
// eligibility score for a borrower profile.
type EligibilityScorer struct {
	advisor *RecommendationEngine
}

// NewEligibilityScorer returns a scorer using the default recommendation
// rules.
func NewEligibilityScorer() *EligibilityScorer {
	return &EligibilityScorer{advisor: NewRecommendationEngine()}
}

// ComputeEligibility is a convenience wrapper around a default scorer.
func ComputeEligibility(in model.EligibilityInputs) (model.EligibilityResult, error) {
	return NewEligibilityScorer().Compute(in)
}

// Compute evaluates the borrower profile.
//
//	disposable    = income - expenses - debt
//	maxAffordable = income * ratio - debt         (ratio 0.5 salaried, 0.4 otherwise)
//	maxEMI        = min(maxAffordable, disposable * 0.6)
//	maxLoan       = PV(maxEMI, 8.5%/12, tenure*12) * creditMultiplier
//
// Tenure is min(30, 65-age), never less than one year.
func (s *EligibilityScorer) Compute(in model.EligibilityInputs) (model.EligibilityResult, error) {
	if !(in.MonthlyIncome > 0) || math.IsInf(in.MonthlyIncome, 0) {
		return model.EligibilityResult{}, &model.InvalidInputError{
			Field:  "monthly_income",
			Reason: "must be greater than zero",
		}
	}

	in.MonthlyExpenses = finiteOrZero(in.MonthlyExpenses)
	in.ExistingMonthlyDebt = finiteOrZero(in.ExistingMonthlyDebt)

	b := s.breakdown(in)

	maxEMI := math.Min(b.MaxAffordableEMI, b.DisposableIncome*DisposableEMIShare)

	var maxLoan float64
	if maxEMI > 0 {
		r := model.MonthlyRate(AssumedAnnualRatePercent)
		maxLoan = model.PresentValue(maxEMI, r, b.TenureYears*12) * b.CreditMultiplier
	}

	return model.EligibilityResult{
		MaxLoanAmount:    math.Max(0, maxLoan),
		RecommendedEMI:   math.Max(0, maxEMI),
		EligibilityScore: score(in, b),
		Recommendations:  s.advisor.Recommend(in, b),
		Breakdown:        b,
	}, nil
}

// finiteOrZero maps NaN and infinities to the zero default of optional
// outgoings.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (s *EligibilityScorer) breakdown(in model.EligibilityInputs) model.EligibilityBreakdown {
	credit := in.CreditScore
	if credit <= 0 || credit < MinCreditScore || credit > MaxCreditScore {
		credit = DefaultCreditScore
	}
	age := in.Age
	if age <= 0 {
		age = DefaultAge
	}

	ratio := NonSalariedEMIRatio
	if in.EmploymentType.IsSalaried() {
		ratio = SalariedEMIRatio
	}

	tenure := min(MaxTenureYears, RetirementAge-age)
	clamped := false
	if tenure < MinTenureYears {
		tenure = MinTenureYears
		clamped = true
	}

	return model.EligibilityBreakdown{
		DisposableIncome: in.MonthlyIncome - in.MonthlyExpenses - in.ExistingMonthlyDebt,
		MaxEMIRatio:      ratio,
		MaxAffordableEMI: in.MonthlyIncome*ratio - in.ExistingMonthlyDebt,
		CreditMultiplier: lookup(creditMultiplierTiers, credit),
		CreditScore:      credit,
		Age:              age,
		TenureYears:      tenure,
		TenureClamped:    clamped,
	}
}

// score is additive; every row contributes independently.
func score(in model.EligibilityInputs, b model.EligibilityBreakdown) int {
	points := 0
	if b.DisposableIncome > 0 {
		points += disposableIncomePoints
	}
	points += lookup(creditScorePoints, b.CreditScore)
	if in.EmploymentType.IsSalaried() {
		points += salariedPoints
	} else {
		points += nonSalariedPoints
	}
	points += lookup(agePoints, b.Age)
	if b.MaxAffordableEMI > in.ExistingMonthlyDebt {
		points += debtHeadroomPoints
	}
	return max(0, min(MaxScore, points))
}
