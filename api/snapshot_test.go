package api

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-engine/finance"
	"github.com/warp/finance-engine/invest"
	"github.com/warp/finance-engine/store/memory"
)

func TestSnapshotJobRecordsEveryUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := finance.ClockAt(2026, time.March, 1)

	// GIVEN positions for two users and none for a third
	require.NoError(t, store.SaveInvestment(ctx, invest.Investment{
		ID: "a1", UserID: "alice", Name: "Index Fund", AssetClass: invest.AssetStocks,
		CostBasis: finance.MustDecimal("10000"), CurrentValue: finance.MustDecimal("12000"),
		PurchaseDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.SaveInvestment(ctx, invest.Investment{
		ID: "b1", UserID: "bob", Name: "Savings", AssetClass: invest.AssetCash,
		CostBasis: finance.MustDecimal("5000"), CurrentValue: finance.MustDecimal("5050"),
		PurchaseDate: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
	}))

	job := NewSnapshotJob(store, clock, zerolog.Nop())

	// WHEN the job runs
	require.NoError(t, job.RunOnce(ctx))

	// THEN each holding user has exactly one valuation for the day
	alice, err := store.ListPortfolioSnapshots(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, alice, 1)
	assert.Equal(t, "12000", alice[0].TotalValue.String())
	assert.Greater(t, alice[0].AnnualizedReturn, 0.0)

	bob, err := store.ListPortfolioSnapshots(ctx, "bob", 10)
	require.NoError(t, err)
	require.Len(t, bob, 1)

	none, err := store.ListPortfolioSnapshots(ctx, "carol", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSnapshotJobIsIdempotentPerDay(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := finance.ClockAt(2026, time.March, 1)

	require.NoError(t, store.SaveInvestment(ctx, invest.Investment{
		ID: "a1", UserID: "alice", Name: "Index Fund", AssetClass: invest.AssetStocks,
		CostBasis: finance.MustDecimal("10000"), CurrentValue: finance.MustDecimal("12000"),
		PurchaseDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}))

	job := NewSnapshotJob(store, clock, zerolog.Nop())
	require.NoError(t, job.RunOnce(ctx))
	require.NoError(t, job.RunOnce(ctx))

	points, err := store.ListPortfolioSnapshots(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Len(t, points, 1, "same-day reruns overwrite, not append")
}

func TestSnapshotJobRejectsBadSchedule(t *testing.T) {
	job := NewSnapshotJob(memory.New(), nil, zerolog.Nop())
	_, err := job.Start("not a cron spec")
	assert.Error(t, err)
}
