package event

import "github.com/homefinder/loancalc/pkg/events"

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	TypeEMICalculated       = "loancalc.emi.calculated"
	TypeEligibilityAssessed = "loancalc.eligibility.assessed"
	TypeScheduleExported    = "loancalc.schedule.exported"

	AggregateCalculation = "Calculation"
	AggregateExport      = "ScheduleExport"
)

// EMICalculated is raised when an instalment is computed.
type EMICalculated struct {
	events.BaseEvent
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermYears         int     `json:"term_years"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	TotalInterest     float64 `json:"total_interest"`
}

func NewEMICalculated(
	calculationID, ownerID string,
	principal, annualRatePercent float64, termYears int,
	monthlyPayment, totalInterest float64,
) EMICalculated {
	return EMICalculated{
		BaseEvent:         events.NewBaseEvent(TypeEMICalculated, calculationID, AggregateCalculation, ownerID),
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermYears:         termYears,
		MonthlyPayment:    monthlyPayment,
		TotalInterest:     totalInterest,
	}
}

// EligibilityAssessed is raised when a borrower profile is scored.
type EligibilityAssessed struct {
	events.BaseEvent
	EligibilityScore int     `json:"eligibility_score"`
	MaxLoanAmount    float64 `json:"max_loan_amount"`
	RecommendedEMI   float64 `json:"recommended_emi"`
	EmploymentType   string  `json:"employment_type"`
}

func NewEligibilityAssessed(
	calculationID, ownerID string,
	score int, maxLoanAmount, recommendedEMI float64, employmentType string,
) EligibilityAssessed {
	return EligibilityAssessed{
		BaseEvent:        events.NewBaseEvent(TypeEligibilityAssessed, calculationID, AggregateCalculation, ownerID),
		EligibilityScore: score,
		MaxLoanAmount:    maxLoanAmount,
		RecommendedEMI:   recommendedEMI,
		EmploymentType:   employmentType,
	}
}

// ScheduleExported is raised after a spreadsheet lands in object storage.
type ScheduleExported struct {
	events.BaseEvent
	ObjectKey string `json:"object_key"`
	Format    string `json:"format"`
	Months    int    `json:"months"`
	SizeBytes int64  `json:"size_bytes"`
}

func NewScheduleExported(exportID, ownerID, objectKey, format string, months int, size int64) ScheduleExported {
	return ScheduleExported{
		BaseEvent: events.NewBaseEvent(TypeScheduleExported, exportID, AggregateExport, ownerID),
		ObjectKey: objectKey,
		Format:    format,
		Months:    months,
		SizeBytes: size,
	}
}
