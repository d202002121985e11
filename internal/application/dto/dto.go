package dto

import (
	"encoding/json"
	"time"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CalculateEMIRequest carries the loan terms for an EMI calculation.
// OwnerID is filled from the caller's token, never from the body.
type CalculateEMIRequest struct {
	OwnerID           string  `json:"-"`
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermYears         int     `json:"term_years"`
	IncludeSchedule   bool    `json:"include_schedule"`
	IncludeYearly     bool    `json:"include_yearly"`
}

// LoanInputs converts the request into domain inputs.
func (r CalculateEMIRequest) LoanInputs() model.LoanInputs {
	return model.LoanInputs{
		Principal:         r.Principal,
		AnnualRatePercent: r.AnnualRatePercent,
		TermYears:         r.TermYears,
	}
}

// Validate rejects non-finite, non-positive or out-of-range loan terms.
func (r CalculateEMIRequest) Validate() error {
	return r.LoanInputs().Validate()
}

// CheckEligibilityRequest carries a borrower profile.
type CheckEligibilityRequest struct {
	OwnerID             string  `json:"-"`
	MonthlyIncome       float64 `json:"monthly_income"`
	MonthlyExpenses     float64 `json:"monthly_expenses"`
	ExistingMonthlyDebt float64 `json:"existing_monthly_debt"`
	EmploymentType      string  `json:"employment_type"`
	CreditScore         int     `json:"credit_score"`
	Age                 int     `json:"age"`
}

// EligibilityInputs validates the request and converts it into domain inputs.
// Credit score and age are passed through untouched; the scorer applies
// its own defaults.
func (r CheckEligibilityRequest) EligibilityInputs() (model.EligibilityInputs, error) {
	if err := r.Validate(); err != nil {
		return model.EligibilityInputs{}, err
	}
	employment, _ := valueobject.NewEmploymentType(r.EmploymentType)
	return model.EligibilityInputs{
		MonthlyIncome:       r.MonthlyIncome,
		MonthlyExpenses:     r.MonthlyExpenses,
		ExistingMonthlyDebt: r.ExistingMonthlyDebt,
		EmploymentType:      employment,
		CreditScore:         r.CreditScore,
		Age:                 r.Age,
	}, nil
}

// Validate rejects values the scorer cannot interpret.
func (r CheckEligibilityRequest) Validate() error {
	switch {
	case !isFinite(r.MonthlyIncome) || r.MonthlyIncome <= 0:
		return &model.InvalidInputError{Field: "monthly_income", Reason: "must be a positive number"}
	case !isFinite(r.MonthlyExpenses) || r.MonthlyExpenses < 0:
		return &model.InvalidInputError{Field: "monthly_expenses", Reason: "must not be negative"}
	case !isFinite(r.ExistingMonthlyDebt) || r.ExistingMonthlyDebt < 0:
		return &model.InvalidInputError{Field: "existing_monthly_debt", Reason: "must not be negative"}
	}
	if _, err := valueobject.NewEmploymentType(r.EmploymentType); err != nil {
		return &model.InvalidInputError{Field: "employment_type", Reason: "must be salaried, self_employed or business"}
	}
	return nil
}

// ExportScheduleRequest asks for the full schedule as a spreadsheet.
type ExportScheduleRequest struct {
	OwnerID           string  `json:"-"`
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermYears         int     `json:"term_years"`
	Title             string  `json:"title,omitempty"`
	Currency          string  `json:"-"`
	Locale            string  `json:"-"`
}

// LoanInputs converts the request into domain inputs.
func (r ExportScheduleRequest) LoanInputs() model.LoanInputs {
	return model.LoanInputs{
		Principal:         r.Principal,
		AnnualRatePercent: r.AnnualRatePercent,
		TermYears:         r.TermYears,
	}
}

// EMISummaryRequest asks for a shareable text summary of an EMI calculation.
type EMISummaryRequest struct {
	CalculateEMIRequest
	Currency string `json:"-"`
	Locale   string `json:"-"`
}

// EligibilitySummaryRequest asks for a shareable text summary of an assessment.
type EligibilitySummaryRequest struct {
	CheckEligibilityRequest
	Currency string `json:"-"`
	Locale   string `json:"-"`
}

// GetCalculationRequest identifies a history record.
type GetCalculationRequest struct {
	OwnerID string `json:"-"`
	ID      string `json:"id"`
}

// ListCalculationsRequest pages through an owner's history.
type ListCalculationsRequest struct {
	OwnerID string `json:"-"`
	Limit   int    `json:"limit"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScheduleEntryResponse is one month of the amortization schedule.
type ScheduleEntryResponse struct {
	Month     int     `json:"month"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// YearlySummaryResponse aggregates twelve months of the schedule.
type YearlySummaryResponse struct {
	Year           int     `json:"year"`
	PrincipalPaid  float64 `json:"principal_paid"`
	InterestPaid   float64 `json:"interest_paid"`
	ClosingBalance float64 `json:"closing_balance"`
}

// EMIResponse is the external representation of an EMI calculation.
type EMIResponse struct {
	CalculationID     string                  `json:"calculation_id,omitempty"`
	Principal         float64                 `json:"principal"`
	AnnualRatePercent float64                 `json:"annual_rate_percent"`
	TermYears         int                     `json:"term_years"`
	MonthlyPayment    float64                 `json:"monthly_payment"`
	TotalPayment      float64                 `json:"total_payment"`
	TotalInterest     float64                 `json:"total_interest"`
	Months            int                     `json:"months"`
	Cached            bool                    `json:"cached"`
	Schedule          []ScheduleEntryResponse `json:"schedule,omitempty"`
	Yearly            []YearlySummaryResponse `json:"yearly,omitempty"`
}

// EligibilityBreakdownResponse exposes the scorer's intermediate values.
type EligibilityBreakdownResponse struct {
	DisposableIncome float64 `json:"disposable_income"`
	MaxEMIRatio      float64 `json:"max_emi_ratio"`
	MaxAffordableEMI float64 `json:"max_affordable_emi"`
	CreditMultiplier float64 `json:"credit_multiplier"`
	CreditScore      int     `json:"credit_score"`
	Age              int     `json:"age"`
	TenureYears      int     `json:"tenure_years"`
	TenureClamped    bool    `json:"tenure_clamped"`
}

// EligibilityResponse is the external representation of an assessment.
type EligibilityResponse struct {
	CalculationID    string                       `json:"calculation_id,omitempty"`
	MaxLoanAmount    float64                      `json:"max_loan_amount"`
	RecommendedEMI   float64                      `json:"recommended_emi"`
	EligibilityScore int                          `json:"eligibility_score"`
	Recommendations  []string                     `json:"recommendations"`
	Breakdown        EligibilityBreakdownResponse `json:"breakdown"`
}

// ExportResponse points at an uploaded schedule.
type ExportResponse struct {
	ExportID    string    `json:"export_id"`
	ObjectKey   string    `json:"object_key"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SummaryResponse is formatted, human-readable text ready to share.
type SummaryResponse struct {
	Text     string `json:"text"`
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}

// CalculationResponse is one history record.
type CalculationResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Inputs    json.RawMessage `json:"inputs"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// CalculationListResponse is a page of history records, newest first.
type CalculationListResponse struct {
	Items []CalculationResponse `json:"items"`
	Count int                   `json:"count"`
}
