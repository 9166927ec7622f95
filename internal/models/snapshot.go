package models

import "strings"

// RiskProfile selects the surplus allocation table
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskBalanced     RiskProfile = "balanced"
	RiskAggressive   RiskProfile = "aggressive"
)

// ParseRiskProfile maps a free-form string to a known profile. Matching
// is case-insensitive; anything unrecognized is treated as balanced,
// never an error.
func ParseRiskProfile(raw string) RiskProfile {
	switch p := NormalizeRiskProfile(raw); p {
	case RiskConservative, RiskAggressive:
		return p
	default:
		return RiskBalanced
	}
}

// NormalizeRiskProfile lowercases the raw profile, defaulting to
// balanced when empty. Unrecognized values pass through so snapshots
// echo back what the caller sent; allocation decisions go through
// ParseRiskProfile instead.
func NormalizeRiskProfile(raw string) RiskProfile {
	p := RiskProfile(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return RiskBalanced
	}
	return p
}

// AdviceRequest is the possibly-partial input to the advice endpoint.
// Pointer fields distinguish "absent" from zero so the normalizer knows
// which values to fill from the ledger.
type AdviceRequest struct {
	TotalUSD        *float64      `json:"total_usd"`
	MonthlyIncome   *float64      `json:"monthly_income"`
	MonthlyExpenses *float64      `json:"monthly_expenses"`
	Transactions    []LedgerEntry `json:"transactions"`
	RiskProfile     string        `json:"risk_profile"`
}

// FinancialSnapshot is the fully-populated input to the recommendation
// engine. Every field is defined; the normalizer guarantees it.
type FinancialSnapshot struct {
	TotalCash       float64
	MonthlyIncome   float64
	MonthlyExpenses float64
	Transactions    []LedgerEntry

	// Lowercased caller input, echoed back in the summary even when
	// unrecognized; allocation lookups re-parse it
	RiskProfile RiskProfile

	// Display-only fields, never used for decisions
	DisplayName      string
	AccountReference string
}
