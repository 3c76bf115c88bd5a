package repository_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/repository"
	"github.com/sahaaya/sahaaya_server/internal/testutil"
)

func TestPlanRepository_EnsureDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewPlanRepository(db)
	require.NoError(t, repo.EnsureDefaults())

	plans, err := repo.ListActive()
	require.NoError(t, err)
	require.Len(t, plans, 4)

	// Ordered by tier, FREE first.
	assert.Equal(t, model.TierFree, plans[0].Tier)
	assert.Equal(t, "FREE", plans[0].Name)
	assert.Zero(t, plans[0].MonthlyPrice)
	assert.Equal(t, model.TierGold, plans[3].Tier)
	assert.Equal(t, 1999.0, plans[3].MonthlyPrice)
	assert.Equal(t, 19990.0, plans[3].YearlyPrice)
}

func TestPlanRepository_EnsureDefaults_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewPlanRepository(db)
	require.NoError(t, repo.EnsureDefaults())
	require.NoError(t, repo.EnsureDefaults())

	var count int64
	require.NoError(t, db.Model(&model.Plan{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestPlanRepository_EnsureDefaults_KeepsManualEdits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewPlanRepository(db)
	require.NoError(t, repo.EnsureDefaults())

	require.NoError(t, db.Model(&model.Plan{}).
		Where("tier = ?", model.TierSilver).
		Update("monthly_price", 1099).Error)

	require.NoError(t, repo.EnsureDefaults())

	silver, err := repo.GetByTier(model.TierSilver)
	require.NoError(t, err)
	assert.Equal(t, 1099.0, silver.MonthlyPrice)
}

func TestDefaultPlans_LimitsMonotone(t *testing.T) {
	plans := repository.DefaultPlans()
	require.Len(t, plans, 4)

	// Unlimited sorts above any finite cap.
	rank := func(v int) int {
		if v == model.Unlimited {
			return int(^uint(0) >> 1)
		}
		return v
	}
	rankF := func(v float64) float64 {
		if v == model.Unlimited {
			return math.MaxFloat64
		}
		return v
	}

	for i := 1; i < len(plans); i++ {
		prev, cur := plans[i-1], plans[i]
		assert.Greater(t, cur.Tier, prev.Tier)
		assert.GreaterOrEqual(t, cur.MonthlyPrice, prev.MonthlyPrice)
		assert.GreaterOrEqual(t, rank(cur.MaxActiveRequests), rank(prev.MaxActiveRequests))
		assert.GreaterOrEqual(t, rank(cur.MonthlyItemLimit), rank(prev.MonthlyItemLimit))
		assert.GreaterOrEqual(t, rankF(cur.MaxItemValue), rankF(prev.MaxItemValue))
		assert.GreaterOrEqual(t, rankF(cur.DonationCeiling), rankF(prev.DonationCeiling))
	}

	// Financial aid unlocks at SILVER and stays unlocked.
	assert.False(t, plans[0].CanRequestFinancialAid)
	assert.False(t, plans[1].CanRequestFinancialAid)
	assert.True(t, plans[2].CanRequestFinancialAid)
	assert.True(t, plans[3].CanRequestFinancialAid)
}
