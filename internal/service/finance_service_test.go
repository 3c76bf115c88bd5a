package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/repository"
	"github.com/sahaaya/sahaaya_server/internal/testutil"
)

func setupFinanceService(t *testing.T) (*FinanceService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	txnRepo := repository.NewTransactionRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	fundingRepo := repository.NewFundingRequestRepository(db)

	service := NewFinanceService(txnRepo, donationRepo, fundingRepo)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestFinanceService_Report_EmptyLedgers(t *testing.T) {
	service, _, cleanup := setupFinanceService(t)
	defer cleanup()

	report, err := service.Report()
	require.NoError(t, err)

	assert.Zero(t, report.SubscriptionRevenueAllTime.Total)
	assert.Zero(t, report.DonationAllTime)
	assert.Zero(t, report.FundingApprovedAllTime)
	assert.Zero(t, report.RefundTotal)
	assert.Zero(t, report.TotalRevenue)
	assert.Zero(t, report.NetRevenue)
	assert.Empty(t, report.RevenueByTier)
	assert.Len(t, report.Trend, 6)
	for _, p := range report.Trend {
		assert.Zero(t, p.Subscriptions)
		assert.Zero(t, p.Donations)
		assert.Zero(t, p.Funding)
	}
}

func TestFinanceService_Report_Totals(t *testing.T) {
	service, db, cleanup := setupFinanceService(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	ngo := testutil.TestUser(t, db)
	donor := testutil.TestUser(t, db, testutil.WithRole(model.RoleDonor))

	// Two completed subscription payments, one pending (ignored), one failed
	// (ignored).
	testutil.TestTransaction(t, db, ngo, plans[model.TierSilver],
		testutil.WithTxnStatus(model.TxnStatusCompleted),
		testutil.WithTxnTotal(999, 179.82, 1178.82))
	testutil.TestTransaction(t, db, ngo, plans[model.TierBronze],
		testutil.WithTxnStatus(model.TxnStatusCompleted),
		testutil.WithTxnTotal(499, 89.82, 588.82))
	testutil.TestTransaction(t, db, ngo, plans[model.TierBronze])
	testutil.TestTransaction(t, db, ngo, plans[model.TierBronze],
		testutil.WithTxnStatus(model.TxnStatusFailed))

	testutil.TestDonation(t, db, donor.ID, ngo.ID, 2500)
	testutil.TestDonation(t, db, donor.ID, ngo.ID, 500)
	testutil.TestFundingRequest(t, db, ngo.ID, 10000)

	report, err := service.Report()
	require.NoError(t, err)

	assert.InDelta(t, 1498.0, report.SubscriptionRevenueAllTime.Subtotal, 0.001)
	assert.InDelta(t, 269.64, report.SubscriptionRevenueAllTime.GSTAmount, 0.001)
	assert.InDelta(t, 1767.64, report.SubscriptionRevenueAllTime.Total, 0.001)
	assert.InDelta(t, 3000.0, report.DonationAllTime, 0.001)
	assert.InDelta(t, 10000.0, report.FundingApprovedAllTime, 0.001)

	// totalRevenue = subscriptions + donations; no refunds yet.
	assert.InDelta(t, 4767.64, report.TotalRevenue, 0.001)
	assert.InDelta(t, 4767.64, report.NetRevenue, 0.001)
}

func TestFinanceService_Report_RefundsSubtracted(t *testing.T) {
	service, db, cleanup := setupFinanceService(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	ngo := testutil.TestUser(t, db)

	refundAmount := 588.82
	testutil.TestTransaction(t, db, ngo, plans[model.TierBronze],
		testutil.WithTxnStatus(model.TxnStatusRefunded),
		testutil.WithTxnTotal(499, 89.82, 588.82),
		func(txn *model.Transaction) {
			txn.RefundAmount = &refundAmount
		})
	testutil.TestTransaction(t, db, ngo, plans[model.TierSilver],
		testutil.WithTxnStatus(model.TxnStatusCompleted),
		testutil.WithTxnTotal(999, 179.82, 1178.82))

	report, err := service.Report()
	require.NoError(t, err)

	// Refunded rows still count as recognized revenue; the refund is
	// subtracted separately.
	assert.InDelta(t, 1767.64, report.SubscriptionRevenueAllTime.Total, 0.001)
	assert.InDelta(t, 588.82, report.RefundTotal, 0.001)
	assert.InDelta(t, 1767.64-588.82, report.NetRevenue, 0.001)
}

func TestFinanceService_Report_RevenueByTier(t *testing.T) {
	service, db, cleanup := setupFinanceService(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	ngo := testutil.TestUser(t, db)

	testutil.TestTransaction(t, db, ngo, plans[model.TierBronze],
		testutil.WithTxnStatus(model.TxnStatusCompleted),
		testutil.WithTxnTotal(499, 89.82, 588.82))
	testutil.TestTransaction(t, db, ngo, plans[model.TierBronze],
		testutil.WithTxnStatus(model.TxnStatusCompleted),
		testutil.WithTxnTotal(499, 89.82, 588.82))
	testutil.TestTransaction(t, db, ngo, plans[model.TierGold],
		testutil.WithTxnStatus(model.TxnStatusCompleted),
		testutil.WithTxnTotal(1999, 359.82, 2358.82))

	report, err := service.Report()
	require.NoError(t, err)

	require.Len(t, report.RevenueByTier, 2)
	assert.Equal(t, model.TierBronze, report.RevenueByTier[0].Tier)
	assert.Equal(t, "BRONZE", report.RevenueByTier[0].TierName)
	assert.Equal(t, int64(2), report.RevenueByTier[0].Count)
	assert.InDelta(t, 1177.64, report.RevenueByTier[0].Total, 0.001)
	assert.Equal(t, model.TierGold, report.RevenueByTier[1].Tier)
	assert.Equal(t, int64(1), report.RevenueByTier[1].Count)
}

func TestFinanceService_Report_TrendBuckets(t *testing.T) {
	service, db, cleanup := setupFinanceService(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	ngo := testutil.TestUser(t, db)
	donor := testutil.TestUser(t, db, testutil.WithRole(model.RoleDonor))

	txn := testutil.TestTransaction(t, db, ngo, plans[model.TierSilver],
		testutil.WithTxnStatus(model.TxnStatusCompleted),
		testutil.WithTxnTotal(999, 179.82, 1178.82))
	// Backdate into the previous month bucket.
	now := time.Now()
	lastMonth := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	require.NoError(t, db.Model(txn).Update("created_at", lastMonth).Error)

	testutil.TestDonation(t, db, donor.ID, ngo.ID, 750)

	report, err := service.Report()
	require.NoError(t, err)
	require.Len(t, report.Trend, 6)

	last := report.Trend[5]
	assert.Equal(t, now.Year(), last.Year)
	assert.Equal(t, int(now.Month()), last.Month)
	assert.InDelta(t, 750.0, last.Donations, 0.001)
	assert.Zero(t, last.Subscriptions)

	prev := report.Trend[4]
	assert.Equal(t, lastMonth.Year(), prev.Year)
	assert.Equal(t, int(lastMonth.Month()), prev.Month)
	assert.InDelta(t, 1178.82, prev.Subscriptions, 0.001)
}
