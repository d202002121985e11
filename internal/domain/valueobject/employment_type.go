package valueobject

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// EmploymentType – immutable value object
// ---------------------------------------------------------------------------

// EmploymentType classifies a borrower's income source.
type EmploymentType struct {
	value string
}

const (
	employmentSalaried     = "salaried"
	employmentSelfEmployed = "self_employed"
	employmentBusiness     = "business"
)

var (
	EmploymentSalaried     = EmploymentType{value: employmentSalaried}
	EmploymentSelfEmployed = EmploymentType{value: employmentSelfEmployed}
	EmploymentBusiness     = EmploymentType{value: employmentBusiness}
)

var validEmploymentTypes = map[string]EmploymentType{
	employmentSalaried:     EmploymentSalaried,
	employmentSelfEmployed: EmploymentSelfEmployed,
	employmentBusiness:     EmploymentBusiness,
}

// NewEmploymentType parses a raw employment type. Matching ignores case,
// surrounding space, and accepts "-" or " " in place of "_".
func NewEmploymentType(s string) (EmploymentType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	v, ok := validEmploymentTypes[key]
	if !ok {
		return EmploymentType{}, fmt.Errorf("invalid employment type: %q", s)
	}
	return v, nil
}

// String returns the canonical lowercase name.
func (e EmploymentType) String() string { return e.value }

// IsZero returns true if the type has not been initialised.
func (e EmploymentType) IsZero() bool { return e.value == "" }

// Equal returns true when both types carry the same value.
func (e EmploymentType) Equal(other EmploymentType) bool {
	return e.value == other.value
}

// IsSalaried reports whether the borrower draws a salary. Every other type,
// including the zero value, is treated as variable income.
func (e EmploymentType) IsSalaried() bool { return e.value == employmentSalaried }

// IsSelfEmployed is true only for self_employed; business owners are
// non-salaried but not self-employed.
func (e EmploymentType) IsSelfEmployed() bool { return e.value == employmentSelfEmployed }

// MarshalText encodes the canonical name.
func (e EmploymentType) MarshalText() ([]byte, error) {
	return []byte(e.value), nil
}

// UnmarshalText parses with the same rules as NewEmploymentType. An empty
// value leaves the zero type.
func (e *EmploymentType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*e = EmploymentType{}
		return nil
	}
	v, err := NewEmploymentType(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
