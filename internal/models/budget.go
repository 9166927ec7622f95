package models

// MerchantSpend is aggregate ant spend at a single merchant
type MerchantSpend struct {
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
}

// BudgetSummary breaks down the last 30 days of debits into essential
// spend and "ant" expenses (small non-essential ones that add up).
type BudgetSummary struct {
	SurvivalMin float64         `json:"survival_min"`
	AntSpend    float64         `json:"ant_spend"`
	TopAnt      []MerchantSpend `json:"top_ant"`
	Cushion     float64         `json:"cushion"`
}
