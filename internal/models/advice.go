package models

// Recommendation kinds, in the order the engine may emit them
const (
	RecSave       = "save"
	RecInvest     = "invest"
	RecAutomation = "automation"
	RecAdvice     = "advice"
)

// RecommendationItem is one structured piece of advice. Which fields are
// set depends on Kind: save and invest carry Amount (invest also
// Instrument), automation carries Action plus a descriptive AmountText,
// advice carries Advice. Rationale is always set.
type RecommendationItem struct {
	Kind       string  `json:"type"`
	Instrument string  `json:"instrument,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	AmountText string  `json:"amount_text,omitempty"`
	Action     string  `json:"action,omitempty"`
	Advice     string  `json:"advice,omitempty"`
	Rationale  string  `json:"rationale"`
}

// SnapshotSummary echoes the normalized inputs back to the caller
type SnapshotSummary struct {
	TotalUSD        float64 `json:"total_usd"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	RiskProfile     string  `json:"risk_profile"`
}

// AdviceResult is the full output of the recommendation engine. The
// order of Recommendations and Rationale is meaningful: it drives the
// narrative section order.
type AdviceResult struct {
	Summary         SnapshotSummary      `json:"summary"`
	Recommendations []RecommendationItem `json:"recommendations"`
	Rationale       []string             `json:"rationale"`
	Score           int                  `json:"score"`
	Narrative       string               `json:"narrative"`
}
