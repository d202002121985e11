// Package memory is an in-process calculation history used when no database
// is configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

// CalculationRepo implements port.CalculationRepository with a map. It keeps
// at most capacity records, dropping the oldest first. Anonymous records are
// not kept: nothing can read them back and they would evict owned history.
type CalculationRepo struct {
	mu       sync.RWMutex
	byID     map[string]model.Calculation
	order    []string
	capacity int
}

// NewCalculationRepo creates an empty repository. A capacity of zero or less
// means unbounded.
func NewCalculationRepo(capacity int) *CalculationRepo {
	return &CalculationRepo{
		byID:     make(map[string]model.Calculation),
		capacity: capacity,
	}
}

func (r *CalculationRepo) Save(_ context.Context, calc model.Calculation) error {
	if calc.OwnerID() == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[calc.ID()]; ok {
		return nil
	}
	calc.ClearEvents()
	r.byID[calc.ID()] = calc
	r.order = append(r.order, calc.ID())

	if r.capacity > 0 && len(r.order) > r.capacity {
		evict := r.order[0]
		r.order = r.order[1:]
		delete(r.byID, evict)
	}
	return nil
}

func (r *CalculationRepo) FindByID(_ context.Context, id string) (model.Calculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calc, ok := r.byID[id]
	if !ok {
		return model.Calculation{}, port.ErrNotFound
	}
	return calc, nil
}

func (r *CalculationRepo) ListByOwner(_ context.Context, ownerID string, limit int) ([]model.Calculation, error) {
	r.mu.RLock()
	var out []model.Calculation
	for _, id := range r.order {
		if c := r.byID[id]; c.OwnerID() == ownerID {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
