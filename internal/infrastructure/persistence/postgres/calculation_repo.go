package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
	pkgpostgres "github.com/homefinder/loancalc/pkg/postgres"
)

// CalculationRepo implements port.CalculationRepository.
type CalculationRepo struct {
	db pkgpostgres.Querier
}

// NewCalculationRepo creates a new repository backed by PostgreSQL. db is
// usually a *pgxpool.Pool.
func NewCalculationRepo(db pkgpostgres.Querier) *CalculationRepo {
	return &CalculationRepo{db: db}
}

// Save inserts a calculation. Records are immutable; saving the same id twice
// is a no-op.
func (r *CalculationRepo) Save(ctx context.Context, calc model.Calculation) error {
	query := `
		INSERT INTO calculations (id, owner_id, kind, inputs, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		calc.ID(), calc.OwnerID(), string(calc.Kind()),
		[]byte(calc.Inputs()), []byte(calc.Result()),
		calc.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save calculation: %w", err)
	}
	return nil
}

// FindByID retrieves a single calculation. Ids that are not UUIDs cannot
// exist and report port.ErrNotFound without a round trip.
func (r *CalculationRepo) FindByID(ctx context.Context, id string) (model.Calculation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Calculation{}, port.ErrNotFound
	}
	query := `
		SELECT id, owner_id, kind, inputs, result, created_at
		FROM calculations
		WHERE id = $1
	`
	calc, err := scanCalculation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Calculation{}, port.ErrNotFound
	}
	return calc, err
}

// ListByOwner returns an owner's most recent calculations first.
func (r *CalculationRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.Calculation, error) {
	query := `
		SELECT id, owner_id, kind, inputs, result, created_at
		FROM calculations
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var result []model.Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, calc)
	}
	return result, rows.Err()
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func scanCalculation(s scannable) (model.Calculation, error) {
	var (
		id, ownerID    string
		kindStr        string
		inputs, result []byte
		createdAt      time.Time
	)

	if err := s.Scan(&id, &ownerID, &kindStr, &inputs, &result, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Calculation{}, err
		}
		return model.Calculation{}, fmt.Errorf("scan calculation: %w", err)
	}

	kind, err := model.ParseCalculationKind(kindStr)
	if err != nil {
		return model.Calculation{}, fmt.Errorf("parse kind: %w", err)
	}

	return model.ReconstructCalculation(
		id, ownerID, kind, inputs, result, createdAt.UTC(),
	), nil
}
