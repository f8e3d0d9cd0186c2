package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/testutil"
)

// TestPortfolioRepository_CRUD tests the portfolio table round trip.
//
// WHY: Every other table hangs off the portfolio row, so timestamps and the
// not-found mapping must survive storage exactly.
func TestPortfolioRepository_CRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("insert then read back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		created := time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC)
		p := model.Portfolio{
			ID:          testutil.MakeID(),
			Name:        "Growth",
			Description: "long term",
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		require.NoError(t, repo.InsertPortfolio(ctx, &p))

		got, err := repo.GetPortfolioOnID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, p.Description, got.Description)
		assert.True(t, created.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)
	})

	t.Run("missing portfolio maps to not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		_, err := repo.GetPortfolioOnID(testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
	})

	t.Run("list is ordered by creation time", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		second := testutil.NewPortfolio().WithName("B").WithCreatedAt(base.Add(time.Hour)).Build(t, db)
		first := testutil.NewPortfolio().WithName("A").WithCreatedAt(base).Build(t, db)

		portfolios, err := repo.GetPortfolios()
		require.NoError(t, err)
		require.Len(t, portfolios, 2)
		assert.Equal(t, first.ID, portfolios[0].ID)
		assert.Equal(t, second.ID, portfolios[1].ID)
	})

	t.Run("empty database returns empty slice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		portfolios, err := repository.NewPortfolioRepository(db).GetPortfolios()
		require.NoError(t, err)
		assert.NotNil(t, portfolios)
		assert.Empty(t, portfolios)
	})

	t.Run("update changes name and description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		p := testutil.CreatePortfolio(t, db, "Old")

		p.Name = "New"
		p.Description = "changed"
		p.UpdatedAt = time.Now().UTC()
		require.NoError(t, repo.UpdatePortfolio(ctx, &p))

		got, err := repo.GetPortfolioOnID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, "New", got.Name)
		assert.Equal(t, "changed", got.Description)
	})

	t.Run("update and delete of unknown id return not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		p := model.Portfolio{ID: testutil.MakeID(), Name: "ghost"}
		assert.ErrorIs(t, repo.UpdatePortfolio(ctx, &p), apperrors.ErrPortfolioNotFound)
		assert.ErrorIs(t, repo.DeletePortfolio(ctx, p.ID), apperrors.ErrPortfolioNotFound)
	})

	t.Run("delete cascades to transactions and snapshots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		p := testutil.CreatePortfolio(t, db, "Doomed")
		tx := testutil.NewTransaction(p.ID).Build(t, db)
		testutil.NewSnapshot(p.ID, testutil.Date("2024-01-05")).Build(t, db)

		require.NoError(t, repo.DeletePortfolio(ctx, p.ID))

		_, err := repository.NewTransactionRepository(db).GetTransaction(tx.ID)
		assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)

		snapshots, err := repository.NewSnapshotRepository(db).
			GetSnapshots(p.ID, testutil.Date("2024-01-01"), testutil.Date("2024-12-31"))
		require.NoError(t, err)
		assert.Empty(t, snapshots)
	})

	t.Run("closed database returns error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		db.Close()

		portfolios, err := repo.GetPortfolios()
		assert.Error(t, err)
		assert.Nil(t, portfolios)
	})
}
