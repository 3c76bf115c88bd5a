package dto

// RevenueBreakdown splits a revenue figure into its invoice components.
type RevenueBreakdown struct {
	Subtotal  float64 `json:"subtotal"`
	GSTAmount float64 `json:"gst_amount"`
	Total     float64 `json:"total"`
}

// TierRevenue is subscription revenue attributed to one plan tier.
type TierRevenue struct {
	Tier     int     `json:"tier"`
	TierName string  `json:"tier_name"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

// TrendPoint is one (year, month) bucket of the merged ledgers.
type TrendPoint struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	Subscriptions float64 `json:"subscriptions"`
	Donations     float64 `json:"donations"`
	Funding       float64 `json:"funding"`
}

// FinancialReport is the full admin rollup. Derived on read from the ledgers,
// never persisted.
type FinancialReport struct {
	SubscriptionRevenueAllTime  RevenueBreakdown `json:"subscription_revenue_all_time"`
	SubscriptionRevenueThisMonth RevenueBreakdown `json:"subscription_revenue_this_month"`
	DonationAllTime             float64          `json:"donation_all_time"`
	DonationThisMonth           float64          `json:"donation_this_month"`
	FundingApprovedAllTime      float64          `json:"funding_approved_all_time"`
	RefundTotal                 float64          `json:"refund_total"`
	TotalRevenue                float64          `json:"total_revenue"`
	NetRevenue                  float64          `json:"net_revenue"`
	RevenueByTier               []TierRevenue    `json:"revenue_by_tier"`
	Trend                       []TrendPoint     `json:"trend"`
}
