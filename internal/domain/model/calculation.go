package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homefinder/loancalc/internal/domain/event"
	"github.com/homefinder/loancalc/pkg/events"
)

// ---------------------------------------------------------------------------
// Calculation aggregate root (history record)
// ---------------------------------------------------------------------------

// CalculationKind tells which calculator produced a history record.
type CalculationKind string

const (
	KindEMI         CalculationKind = "emi"
	KindEligibility CalculationKind = "eligibility"
)

// ParseCalculationKind validates a stored or requested kind.
func ParseCalculationKind(s string) (CalculationKind, error) {
	switch k := CalculationKind(s); k {
	case KindEMI, KindEligibility:
		return k, nil
	default:
		return "", fmt.Errorf("unknown calculation kind %q", s)
	}
}

// EMISummary is the stored outcome of an EMI calculation. The schedule is
// not persisted; it is recomputed from the inputs on demand.
type EMISummary struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
	Months         int     `json:"months"`
}

// Calculation is one entry in a user's calculation history. Inputs and
// result are kept as JSON documents so both calculators share one table.
type Calculation struct {
	events.EventCollector

	id        string
	ownerID   string
	kind      CalculationKind
	inputs    json.RawMessage
	result    json.RawMessage
	createdAt time.Time
}

// NewEMICalculation records a computed EMI and raises EMICalculated.
// ownerID may be empty for anonymous callers.
func NewEMICalculation(ownerID string, res EMIResult, now time.Time) (Calculation, error) {
	summary := EMISummary{
		MonthlyPayment: res.MonthlyPayment,
		TotalPayment:   res.TotalPayment,
		TotalInterest:  res.TotalInterest,
		Months:         len(res.Schedule),
	}
	c, err := newCalculation(ownerID, KindEMI, res.Inputs, summary, now)
	if err != nil {
		return Calculation{}, err
	}
	c.Record(event.NewEMICalculated(
		c.id, ownerID,
		res.Inputs.Principal, res.Inputs.AnnualRatePercent, res.Inputs.TermYears,
		res.MonthlyPayment, res.TotalInterest,
	))
	return c, nil
}

// NewEligibilityCalculation records an assessment and raises EligibilityAssessed.
func NewEligibilityCalculation(ownerID string, in EligibilityInputs, res EligibilityResult, now time.Time) (Calculation, error) {
	c, err := newCalculation(ownerID, KindEligibility, in, res, now)
	if err != nil {
		return Calculation{}, err
	}
	c.Record(event.NewEligibilityAssessed(
		c.id, ownerID,
		res.EligibilityScore, res.MaxLoanAmount, res.RecommendedEMI, in.EmploymentType.String(),
	))
	return c, nil
}

func newCalculation(ownerID string, kind CalculationKind, inputs, result any, now time.Time) (Calculation, error) {
	in, err := json.Marshal(inputs)
	if err != nil {
		return Calculation{}, fmt.Errorf("encode inputs: %w", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return Calculation{}, fmt.Errorf("encode result: %w", err)
	}
	return Calculation{
		id:        uuid.NewString(),
		ownerID:   ownerID,
		kind:      kind,
		inputs:    in,
		result:    out,
		createdAt: now.UTC(),
	}, nil
}

// ReconstructCalculation rebuilds an aggregate from persistence without side-effects.
func ReconstructCalculation(
	id, ownerID string,
	kind CalculationKind,
	inputs, result []byte,
	createdAt time.Time,
) Calculation {
	return Calculation{
		id:        id,
		ownerID:   ownerID,
		kind:      kind,
		inputs:    inputs,
		result:    result,
		createdAt: createdAt,
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c Calculation) ID() string              { return c.id }
func (c Calculation) OwnerID() string         { return c.ownerID }
func (c Calculation) Kind() CalculationKind   { return c.kind }
func (c Calculation) Inputs() json.RawMessage { return c.inputs }
func (c Calculation) Result() json.RawMessage { return c.result }
func (c Calculation) CreatedAt() time.Time    { return c.createdAt }

// IsOwnedBy reports whether ownerID may read this record. Anonymous records
// belong to nobody.
func (c Calculation) IsOwnedBy(ownerID string) bool {
	return ownerID != "" && c.ownerID == ownerID
}

var errKindMismatch = errors.New("calculation kind mismatch")

// EMIInputs decodes the stored loan inputs of an EMI record.
func (c Calculation) EMIInputs() (LoanInputs, error) {
	var in LoanInputs
	if c.kind != KindEMI {
		return in, errKindMismatch
	}
	if err := json.Unmarshal(c.inputs, &in); err != nil {
		return in, fmt.Errorf("decode inputs: %w", err)
	}
	return in, nil
}

// EligibilityInputs decodes the stored borrower profile of an eligibility record.
func (c Calculation) EligibilityInputs() (EligibilityInputs, error) {
	var in EligibilityInputs
	if c.kind != KindEligibility {
		return in, errKindMismatch
	}
	if err := json.Unmarshal(c.inputs, &in); err != nil {
		return in, fmt.Errorf("decode inputs: %w", err)
	}
	return in, nil
}
