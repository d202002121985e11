package model

import "github.com/homefinder/loancalc/internal/domain/valueobject"

// EligibilityInputs is a borrower profile. Zero CreditScore or Age means
// "not supplied" and is replaced by a default during scoring.
type EligibilityInputs struct {
	MonthlyIncome       float64                    `json:"monthly_income"`
	MonthlyExpenses     float64                    `json:"monthly_expenses"`
	ExistingMonthlyDebt float64                    `json:"existing_monthly_debt"`
	EmploymentType      valueobject.EmploymentType `json:"employment_type"`
	CreditScore         int                        `json:"credit_score,omitempty"`
	Age                 int                        `json:"age,omitempty"`
}

// EligibilityBreakdown exposes the intermediate values the scorer derived.
type EligibilityBreakdown struct {
	DisposableIncome float64 `json:"disposable_income"`
	MaxEMIRatio      float64 `json:"max_emi_ratio"`
	MaxAffordableEMI float64 `json:"max_affordable_emi"`
	CreditMultiplier float64 `json:"credit_multiplier"`
	CreditScore      int     `json:"credit_score"`
	Age              int     `json:"age"`
	TenureYears      int     `json:"tenure_years"`
	TenureClamped    bool    `json:"tenure_clamped"`
}

// EligibilityResult is the outcome of an eligibility assessment.
type EligibilityResult struct {
	MaxLoanAmount    float64              `json:"max_loan_amount"`
	RecommendedEMI   float64              `json:"recommended_emi"`
	EligibilityScore int                  `json:"eligibility_score"`
	Recommendations  []string             `json:"recommendations"`
	Breakdown        EligibilityBreakdown `json:"breakdown"`
}
