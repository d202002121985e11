package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/internal/infrastructure/persistence/memory"
)

func record(t *testing.T, owner string, at time.Time) model.Calculation {
	t.Helper()
	res, err := model.ComputeEMI(100_000, 10, 1)
	require.NoError(t, err)
	calc, err := model.NewEMICalculation(owner, res, at)
	require.NoError(t, err)
	return calc
}

func TestCalculationRepo(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("saves, finds and lists newest first", func(t *testing.T) {
		repo := memory.NewCalculationRepo(0)
		older := record(t, "u1", base)
		newer := record(t, "u1", base.Add(time.Hour))
		foreign := record(t, "u2", base.Add(2*time.Hour))
		for _, c := range []model.Calculation{older, newer, foreign} {
			require.NoError(t, repo.Save(ctx, c))
		}

		got, err := repo.FindByID(ctx, older.ID())
		require.NoError(t, err)
		assert.Equal(t, older.ID(), got.ID())
		assert.Empty(t, got.Events(), "stored copies carry no pending events")

		list, err := repo.ListByOwner(ctx, "u1", 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID(), list[0].ID())

		list, err = repo.ListByOwner(ctx, "u1", 1)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("reports missing ids", func(t *testing.T) {
		_, err := memory.NewCalculationRepo(0).FindByID(ctx, "nope")
		assert.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("evicts the oldest record beyond capacity", func(t *testing.T) {
		repo := memory.NewCalculationRepo(2)
		first := record(t, "u1", base)
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, record(t, "u1", base.Add(time.Minute))))
		require.NoError(t, repo.Save(ctx, record(t, "u1", base.Add(2*time.Minute))))

		_, err := repo.FindByID(ctx, first.ID())
		assert.ErrorIs(t, err, port.ErrNotFound)

		list, err := repo.ListByOwner(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("anonymous records do not evict owned history", func(t *testing.T) {
		repo := memory.NewCalculationRepo(1)
		owned := record(t, "u1", base)
		require.NoError(t, repo.Save(ctx, owned))

		anon := record(t, "", base.Add(time.Minute))
		require.NoError(t, repo.Save(ctx, anon))

		_, err := repo.FindByID(ctx, anon.ID())
		assert.ErrorIs(t, err, port.ErrNotFound)

		got, err := repo.FindByID(ctx, owned.ID())
		require.NoError(t, err)
		assert.Equal(t, owned.ID(), got.ID())
	})
}
