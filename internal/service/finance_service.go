package service

import (
	"time"

	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/pkg/invoice"
	"github.com/sahaaya/sahaaya_server/internal/repository"
)

const trendMonths = 6

// FinanceService produces the admin financial rollups. Pure reads over the
// three ledgers; nothing here is persisted, so the figures are simply "the
// ledger state at query time".
type FinanceService struct {
	txnRepo      *repository.TransactionRepository
	donationRepo *repository.DonationRepository
	fundingRepo  *repository.FundingRequestRepository
}

func NewFinanceService(
	txnRepo *repository.TransactionRepository,
	donationRepo *repository.DonationRepository,
	fundingRepo *repository.FundingRequestRepository,
) *FinanceService {
	return &FinanceService{
		txnRepo:      txnRepo,
		donationRepo: donationRepo,
		fundingRepo:  fundingRepo,
	}
}

// Report assembles the full rollup. Empty ledgers yield zero totals and empty
// slices, never errors.
func (s *FinanceService) Report() (*dto.FinancialReport, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	allSub, allGST, allTotal, err := s.txnRepo.SumCompleted(nil)
	if err != nil {
		return nil, err
	}
	moSub, moGST, moTotal, err := s.txnRepo.SumCompleted(&monthStart)
	if err != nil {
		return nil, err
	}

	donationAll, err := s.donationRepo.SumCompleted(nil)
	if err != nil {
		return nil, err
	}
	donationMonth, err := s.donationRepo.SumCompleted(&monthStart)
	if err != nil {
		return nil, err
	}

	fundingAll, err := s.fundingRepo.SumApproved(nil)
	if err != nil {
		return nil, err
	}

	refunds, err := s.txnRepo.SumRefunds()
	if err != nil {
		return nil, err
	}

	byTier, err := s.revenueByTier()
	if err != nil {
		return nil, err
	}

	trend, err := s.trend(now)
	if err != nil {
		return nil, err
	}

	totalRevenue := invoice.Round2(allTotal + donationAll)
	return &dto.FinancialReport{
		SubscriptionRevenueAllTime: dto.RevenueBreakdown{
			Subtotal: allSub, GSTAmount: allGST, Total: allTotal,
		},
		SubscriptionRevenueThisMonth: dto.RevenueBreakdown{
			Subtotal: moSub, GSTAmount: moGST, Total: moTotal,
		},
		DonationAllTime:        donationAll,
		DonationThisMonth:      donationMonth,
		FundingApprovedAllTime: fundingAll,
		RefundTotal:            refunds,
		TotalRevenue:           totalRevenue,
		NetRevenue:             invoice.Round2(totalRevenue - refunds),
		RevenueByTier:          byTier,
		Trend:                  trend,
	}, nil
}

func (s *FinanceService) revenueByTier() ([]dto.TierRevenue, error) {
	rows, err := s.txnRepo.RevenueByTier()
	if err != nil {
		return nil, err
	}

	out := make([]dto.TierRevenue, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TierRevenue{
			Tier:     row.PlanTier,
			TierName: model.TierName(row.PlanTier),
			Total:    row.Total,
			Count:    row.Count,
		})
	}
	return out, nil
}

// trend merges the three ledgers into one (year, month) series covering the
// last trendMonths months, oldest first. Bucketing happens in Go so the same
// query works on MySQL and SQLite.
func (s *FinanceService) trend(now time.Time) ([]dto.TrendPoint, error) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(trendMonths - 1), 0)

	points := make([]dto.TrendPoint, trendMonths)
	index := make(map[int]int, trendMonths)
	for i := 0; i < trendMonths; i++ {
		m := first.AddDate(0, i, 0)
		points[i] = dto.TrendPoint{Year: m.Year(), Month: int(m.Month())}
		index[m.Year()*100+int(m.Month())] = i
	}

	txns, err := s.txnRepo.ListCompletedSince(first)
	if err != nil {
		return nil, err
	}
	for _, txn := range txns {
		if i, ok := index[txn.CreatedAt.Year()*100+int(txn.CreatedAt.Month())]; ok {
			points[i].Subscriptions = invoice.Round2(points[i].Subscriptions + txn.Total)
		}
	}

	donations, err := s.donationRepo.ListCompletedSince(first)
	if err != nil {
		return nil, err
	}
	for _, d := range donations {
		if i, ok := index[d.CreatedAt.Year()*100+int(d.CreatedAt.Month())]; ok {
			points[i].Donations = invoice.Round2(points[i].Donations + d.Amount)
		}
	}

	funded, err := s.fundingRepo.ListApprovedSince(first)
	if err != nil {
		return nil, err
	}
	for _, f := range funded {
		if f.ApprovedAt == nil || f.ApprovedAmount == nil {
			continue
		}
		if i, ok := index[f.ApprovedAt.Year()*100+int(f.ApprovedAt.Month())]; ok {
			points[i].Funding = invoice.Round2(points[i].Funding + *f.ApprovedAmount)
		}
	}

	return points, nil
}
