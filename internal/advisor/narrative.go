package advisor

import (
	"fmt"
	"strings"

	"github.com/fincoach/fincoach/internal/models"
)

// composeNarrative renders the advisor-voice text accompanying the
// structured recommendations. Sections appear in a fixed order: greeting,
// balance, small-expense summary, investment lines, save/automation
// lines, closing offer. Empty lines are dropped when joining.
func composeNarrative(snap models.FinancialSnapshot, recommendations []models.RecommendationItem, smallCount int, smallSum float64) string {
	salutation := "Hi, "
	if snap.DisplayName != "" {
		salutation = fmt.Sprintf("Hi %s, ", snap.DisplayName)
	}

	balanceLine := fmt.Sprintf("You currently have $%.2f in your main account", snap.TotalCash)
	if snap.AccountReference != "" {
		balanceLine += fmt.Sprintf(" (id: %s)", snap.AccountReference)
	}
	balanceLine += "."

	// The small-expense summary is reported whenever any were found,
	// independent of the gate that emits the advice item.
	smallLine := "No significant small recurring expenses detected recently."
	if smallCount > 0 {
		smallLine = fmt.Sprintf("I found %d small recurring expenses adding up to about $%.2f. Trimming these can raise your monthly savings.", smallCount, smallSum)
	}

	lines := []string{
		salutation + "I am your automated financial coach. Here is a summary with practical recommendations:",
		balanceLine,
		smallLine,
		"",
		"Suggested investment options:",
	}

	for _, rec := range recommendations {
		if rec.Kind == models.RecInvest {
			lines = append(lines, fmt.Sprintf("- INVEST in %s: $%.2f; %s", rec.Instrument, rec.Amount, rec.Rationale))
		}
	}
	for _, rec := range recommendations {
		switch rec.Kind {
		case models.RecSave:
			lines = append(lines, fmt.Sprintf("- SAVE: $%.2f; %s", rec.Amount, rec.Rationale))
		case models.RecAutomation:
			lines = append(lines, fmt.Sprintf("- %s (%s)", rec.Rationale, rec.AmountText))
		}
	}

	lines = append(lines, "")
	lines = append(lines, "If you want, I can apply one of these recommendations in simulation so you can see the effect on your balance.")

	var kept []string
	for _, ln := range lines {
		if ln != "" {
			kept = append(kept, ln)
		}
	}
	return strings.Join(kept, "\n")
}
