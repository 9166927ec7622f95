package advisor

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/market"
	"github.com/fincoach/fincoach/internal/models"
)

// recentLimit bounds the transaction window pulled from the ledger when
// the caller did not supply one
const recentLimit = 50

// Ledger is the read-only slice of the store the normalizer needs
type Ledger interface {
	SumByAccount(accountID string) (float64, error)
	RecentByAccount(accountID string, limit int) ([]models.LedgerEntry, error)
}

// Advisor generates budget recommendations from financial snapshots
type Advisor struct {
	prices          market.Source
	payrollKeywords []string
	log             *logrus.Logger
}

// New initializes a new advisor. payrollKeywords are the case-insensitive
// substrings that mark a transaction description as recurring income.
func New(prices market.Source, payrollKeywords []string, log *logrus.Logger) *Advisor {
	return &Advisor{
		prices:          prices,
		payrollKeywords: payrollKeywords,
		log:             log,
	}
}

// Normalize fills a possibly-partial request into a complete snapshot.
// Missing total cash is computed as the ledger sum for the account and a
// missing transaction list is loaded as the most recent entries, newest
// first. Read failures degrade to zero values rather than erroring: the
// advice flow always proceeds.
func (a *Advisor) Normalize(ctx context.Context, req models.AdviceRequest, ledger Ledger, accountID string) models.FinancialSnapshot {
	snap := models.FinancialSnapshot{
		RiskProfile:      models.NormalizeRiskProfile(req.RiskProfile),
		AccountReference: accountID,
	}

	if req.MonthlyIncome != nil {
		snap.MonthlyIncome = *req.MonthlyIncome
	}
	if req.MonthlyExpenses != nil {
		snap.MonthlyExpenses = *req.MonthlyExpenses
	}

	if req.TotalUSD != nil {
		snap.TotalCash = *req.TotalUSD
	} else if ledger != nil && accountID != "" {
		total, err := ledger.SumByAccount(accountID)
		if err != nil {
			a.log.Warnf("Failed to compute balance for %s: %v", accountID, err)
		} else {
			snap.TotalCash = total
		}
	}

	if req.Transactions != nil {
		snap.Transactions = req.Transactions
	} else if ledger != nil && accountID != "" {
		entries, err := ledger.RecentByAccount(accountID, recentLimit)
		if err != nil {
			a.log.Warnf("Failed to load transactions for %s: %v", accountID, err)
		} else {
			snap.Transactions = entries
		}
	}

	return snap
}
