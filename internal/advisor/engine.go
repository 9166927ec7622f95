package advisor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/fincoach/fincoach/internal/models"
	"github.com/fincoach/fincoach/internal/utils"
)

const (
	emergencyMonths = 3
	emergencyFloor  = 1000.0

	// Surplus below this is not worth splitting into positions
	minInvestableSurplus = 50.0

	// Entries with |amount| under this count as small recurring expenses
	smallExpenseLimit = 20.0
	// More than this many small expenses triggers the advice item
	smallExpenseGate = 10
)

type allocation struct {
	bonds, equities, crypto float64
}

// Allocation tables by risk profile. Percentages always sum to 1.
var allocations = map[models.RiskProfile]allocation{
	models.RiskConservative: {bonds: 0.6, equities: 0.3, crypto: 0.1},
	models.RiskBalanced:     {bonds: 0.4, equities: 0.4, crypto: 0.2},
	models.RiskAggressive:   {bonds: 0.2, equities: 0.3, crypto: 0.5},
}

// Generate applies the fixed rule set to a normalized snapshot. The
// emission order of recommendations and rationale lines is part of the
// contract: the narrative renders sections in exactly this order.
func (a *Advisor) Generate(ctx context.Context, snap models.FinancialSnapshot) models.AdviceResult {
	total := snap.TotalCash
	target := emergencyTarget(snap.MonthlyExpenses, snap.MonthlyIncome)

	var recommendations []models.RecommendationItem
	var rationale []string

	if total < target {
		need := utils.Round2(target - total)
		recommendations = append(recommendations, models.RecommendationItem{
			Kind:      models.RecSave,
			Amount:    need,
			Rationale: fmt.Sprintf("Build an emergency fund to cover ~%d months of expenses ($%.2f).", emergencyMonths, target),
		})
		rationale = append(rationale, fmt.Sprintf("Current cash $%.2f is below the emergency target $%.2f.", total, target))
	} else {
		surplus := total - target
		if surplus > minInvestableSurplus {
			alloc := allocations[models.ParseRiskProfile(string(snap.RiskProfile))]

			equitiesAmount := utils.Round2(surplus * alloc.equities)
			bondsAmount := utils.Round2(surplus * alloc.bonds)
			cryptoAmount := utils.Round2(surplus * alloc.crypto)

			if equitiesAmount > 0 {
				recommendations = append(recommendations, models.RecommendationItem{
					Kind:       models.RecInvest,
					Instrument: "SPY (ETF)",
					Amount:     equitiesAmount,
					Rationale:  "Diversified equity exposure via a low-cost ETF.",
				})
			}
			if bondsAmount > 0 {
				recommendations = append(recommendations, models.RecommendationItem{
					Kind:       models.RecInvest,
					Instrument: "BND (ETF bonos)",
					Amount:     bondsAmount,
					Rationale:  "Stability via a broad bond ETF.",
				})
			}
			if cryptoAmount > 0 {
				btc := utils.Round2(cryptoAmount * 0.6)
				eth := utils.Round2(cryptoAmount * 0.4)
				if btc > 0 {
					recommendations = append(recommendations, models.RecommendationItem{
						Kind:       models.RecInvest,
						Instrument: "BTC",
						Amount:     btc,
						Rationale:  "Long-term store of value exposure.",
					})
				}
				if eth > 0 {
					recommendations = append(recommendations, models.RecommendationItem{
						Kind:       models.RecInvest,
						Instrument: "ETH",
						Amount:     eth,
						Rationale:  "Smart contract platform exposure.",
					})
				}
			}

			rationale = append(rationale, fmt.Sprintf("Surplus $%.2f allocated by risk profile %q across equities, bonds and crypto.", surplus, snap.RiskProfile))
		}
	}

	if a.hasRecurringIncome(snap.Transactions) {
		rationale = append(rationale, "Detected recurring payroll entries; consider automated savings into investments each payday.")
		recommendations = append(recommendations, models.RecommendationItem{
			Kind:       models.RecAutomation,
			Action:     "auto-save",
			AmountText: "10% of paycheck",
			Rationale:  "Automatically move a fixed percent of each paycheck into investments or savings.",
		})
	}

	smallCount, smallSum := smallExpenses(snap.Transactions)
	if smallCount > smallExpenseGate {
		recommendations = append(recommendations, models.RecommendationItem{
			Kind:      models.RecAdvice,
			Advice:    "Reduce small daily expenses",
			Rationale: "Found many small transactions; trimming these can increase savings.",
		})
	}

	if a.prices != nil {
		btc := a.prices.GetPrice(ctx, "BTCUSD")
		eth := a.prices.GetPrice(ctx, "ETHUSD")
		rationale = append(rationale, fmt.Sprintf("Market prices (demo): BTC $%.2f, ETH $%.2f", btc.Price, eth.Price))
	}

	score := 100
	if total < target {
		score = 40
	} else if total < target*2 {
		score = 70
	}

	return models.AdviceResult{
		Summary: models.SnapshotSummary{
			TotalUSD:        total,
			MonthlyIncome:   snap.MonthlyIncome,
			MonthlyExpenses: snap.MonthlyExpenses,
			RiskProfile:     string(snap.RiskProfile),
		},
		Recommendations: recommendations,
		Rationale:       rationale,
		Score:           score,
		Narrative:       composeNarrative(snap, recommendations, smallCount, smallSum),
	}
}

// emergencyTarget is three months of expenses, falling back to three
// months of income, falling back to a fixed floor.
func emergencyTarget(expenses, income float64) float64 {
	if expenses > 0 {
		return expenses * emergencyMonths
	}
	if income > 0 {
		return income * emergencyMonths
	}
	return emergencyFloor
}

func (a *Advisor) hasRecurringIncome(entries []models.LedgerEntry) bool {
	for _, e := range entries {
		desc := strings.ToLower(e.Description)
		for _, kw := range a.payrollKeywords {
			if strings.Contains(desc, kw) {
				return true
			}
		}
	}
	return false
}

// smallExpenses counts entries with a nonzero amount under the small
// limit and sums their absolute values for the narrative.
func smallExpenses(entries []models.LedgerEntry) (int, float64) {
	count := 0
	sum := 0.0
	for _, e := range entries {
		if e.Amount != 0 && math.Abs(e.Amount) < smallExpenseLimit {
			count++
			sum += math.Abs(e.Amount)
		}
	}
	return count, utils.Round2(sum)
}
