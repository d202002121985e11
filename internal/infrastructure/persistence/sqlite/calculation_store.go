// Package sqlite keeps calculation history in a local SQLite file for the CLI.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, no cgo

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

var _ port.CalculationRepository = (*CalculationStore)(nil)

// CalculationStore implements port.CalculationRepository on SQLite.
type CalculationStore struct {
	db *sql.DB
}

// Open creates the parent directory if needed, opens the database and
// ensures the schema exists.
func Open(path string) (*CalculationStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &CalculationStore{db: db}, nil
}

// Close closes the database.
func (s *CalculationStore) Close() error {
	return s.db.Close()
}

// Save inserts a calculation, ignoring duplicates.
func (s *CalculationStore) Save(ctx context.Context, calc model.Calculation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO calculations (id, owner_id, kind, inputs, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		calc.ID(), calc.OwnerID(), string(calc.Kind()),
		string(calc.Inputs()), string(calc.Result()),
		calc.CreatedAt().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save calculation: %w", err)
	}
	return nil
}

// FindByID retrieves a single calculation.
func (s *CalculationStore) FindByID(ctx context.Context, id string) (model.Calculation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, kind, inputs, result, created_at FROM calculations WHERE id = ?`, id)
	calc, err := scanCalculation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Calculation{}, port.ErrNotFound
	}
	return calc, err
}

// ListByOwner returns the newest records first. The CLI stores everything
// under an empty owner.
func (s *CalculationStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.Calculation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, kind, inputs, result, created_at
		 FROM calculations
		 WHERE owner_id = ?
		 ORDER BY created_at DESC, id
		 LIMIT ?`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var out []model.Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, calc)
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCalculation(s scannable) (model.Calculation, error) {
	var (
		id, ownerID, kindStr string
		inputs, result       string
		createdAt            int64
	)
	if err := s.Scan(&id, &ownerID, &kindStr, &inputs, &result, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Calculation{}, err
		}
		return model.Calculation{}, fmt.Errorf("scan calculation: %w", err)
	}
	kind, err := model.ParseCalculationKind(kindStr)
	if err != nil {
		return model.Calculation{}, fmt.Errorf("parse kind: %w", err)
	}
	return model.ReconstructCalculation(
		id, ownerID, kind, []byte(inputs), []byte(result), time.Unix(0, createdAt).UTC(),
	), nil
}
