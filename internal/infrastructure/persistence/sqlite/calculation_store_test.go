package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/internal/domain/valueobject"
)

func TestCalculationStore(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	res, err := model.ComputeEMI(800_000, 10, 8)
	if err != nil {
		t.Fatalf("ComputeEMI failed: %v", err)
	}
	emi, err := model.NewEMICalculation("", res, base)
	if err != nil {
		t.Fatalf("NewEMICalculation failed: %v", err)
	}

	profile := model.EligibilityInputs{
		MonthlyIncome:  60_000,
		EmploymentType: valueobject.EmploymentSalaried,
		CreditScore:    780,
		Age:            32,
	}
	elig, err := model.NewEligibilityCalculation("", profile, model.EligibilityResult{EligibilityScore: 90}, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("NewEligibilityCalculation failed: %v", err)
	}

	for _, c := range []model.Calculation{emi, elig} {
		if err := store.Save(ctx, c); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	t.Run("FindByID round-trips the record", func(t *testing.T) {
		got, err := store.FindByID(ctx, emi.ID())
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if got.Kind() != model.KindEMI {
			t.Errorf("Expected kind emi, got %s", got.Kind())
		}
		if !got.CreatedAt().Equal(base) {
			t.Errorf("Expected created_at %v, got %v", base, got.CreatedAt())
		}
		in, err := got.EMIInputs()
		if err != nil {
			t.Fatalf("EMIInputs failed: %v", err)
		}
		if in != res.Inputs {
			t.Errorf("Expected inputs %+v, got %+v", res.Inputs, in)
		}
	})

	t.Run("FindByID reports missing records", func(t *testing.T) {
		_, err := store.FindByID(ctx, "missing")
		if !errors.Is(err, port.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListByOwner returns newest first", func(t *testing.T) {
		got, err := store.ListByOwner(ctx, "", 10)
		if err != nil {
			t.Fatalf("ListByOwner failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(got))
		}
		if got[0].ID() != elig.ID() {
			t.Errorf("Expected eligibility record first, got %s", got[0].Kind())
		}
		decoded, err := got[0].EligibilityInputs()
		if err != nil {
			t.Fatalf("EligibilityInputs failed: %v", err)
		}
		if !decoded.EmploymentType.Equal(valueobject.EmploymentSalaried) {
			t.Errorf("Expected salaried, got %s", decoded.EmploymentType)
		}
	})

	t.Run("Save ignores duplicates", func(t *testing.T) {
		if err := store.Save(ctx, emi); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, _ := store.ListByOwner(ctx, "", 10)
		if len(got) != 2 {
			t.Errorf("Expected 2 records after duplicate save, got %d", len(got))
		}
	})

	t.Run("schema survives reopen", func(t *testing.T) {
		if err := runMigrations(store.db); err != nil {
			t.Errorf("re-running migrations failed: %v", err)
		}
	})
}
