package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincoach/fincoach/internal/models"
)

type fakeLedger struct {
	sum        float64
	entries    []models.LedgerEntry
	sumErr     error
	entriesErr error

	lastLimit int
}

func (f *fakeLedger) SumByAccount(accountID string) (float64, error) {
	return f.sum, f.sumErr
}

func (f *fakeLedger) RecentByAccount(accountID string, limit int) ([]models.LedgerEntry, error) {
	f.lastLimit = limit
	return f.entries, f.entriesErr
}

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeFillsMissingFieldsFromLedger(t *testing.T) {
	ledger := &fakeLedger{
		sum: 1234.56,
		entries: []models.LedgerEntry{
			{Amount: -10, Description: "Coffee"},
			{Amount: 500, Description: "Payroll"},
		},
	}

	snap := testAdvisor().Normalize(context.Background(), models.AdviceRequest{}, ledger, "ACC-1")

	assert.InDelta(t, 1234.56, snap.TotalCash, 0.001)
	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, 50, ledger.lastLimit)
	assert.Zero(t, snap.MonthlyIncome)
	assert.Zero(t, snap.MonthlyExpenses)
	assert.Equal(t, models.RiskBalanced, snap.RiskProfile)
	assert.Equal(t, "ACC-1", snap.AccountReference)
}

func TestNormalizeKeepsProvidedValues(t *testing.T) {
	ledger := &fakeLedger{sum: 9999}

	snap := testAdvisor().Normalize(context.Background(), models.AdviceRequest{
		TotalUSD:        floatPtr(42),
		MonthlyIncome:   floatPtr(2000),
		MonthlyExpenses: floatPtr(1500),
		Transactions:    []models.LedgerEntry{},
		RiskProfile:     "aggressive",
	}, ledger, "ACC-1")

	assert.InDelta(t, 42.0, snap.TotalCash, 0.001)
	assert.InDelta(t, 2000.0, snap.MonthlyIncome, 0.001)
	assert.InDelta(t, 1500.0, snap.MonthlyExpenses, 0.001)
	assert.Empty(t, snap.Transactions)
	assert.Equal(t, models.RiskAggressive, snap.RiskProfile)
}

func TestNormalizeZeroTotalIsNotRefetched(t *testing.T) {
	ledger := &fakeLedger{sum: 5000}

	snap := testAdvisor().Normalize(context.Background(), models.AdviceRequest{
		TotalUSD: floatPtr(0),
	}, ledger, "ACC-1")

	assert.Zero(t, snap.TotalCash, "explicit zero must not be replaced by the ledger sum")
}

func TestNormalizeDegradesOnLedgerErrors(t *testing.T) {
	ledger := &fakeLedger{
		sumErr:     errors.New("db down"),
		entriesErr: errors.New("db down"),
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	adv := New(nil, []string{"payroll"}, log)

	snap := adv.Normalize(context.Background(), models.AdviceRequest{}, ledger, "ACC-1")

	assert.Zero(t, snap.TotalCash)
	assert.Empty(t, snap.Transactions)
}

func TestNormalizeWithoutLedger(t *testing.T) {
	snap := testAdvisor().Normalize(context.Background(), models.AdviceRequest{}, nil, "")

	assert.Zero(t, snap.TotalCash)
	assert.Empty(t, snap.Transactions)
	assert.Equal(t, models.RiskBalanced, snap.RiskProfile)
}

func TestNormalizeKeepsUnrecognizedProfileLowercased(t *testing.T) {
	snap := testAdvisor().Normalize(context.Background(), models.AdviceRequest{RiskProfile: " Moderado "}, nil, "")
	assert.Equal(t, models.RiskProfile("moderado"), snap.RiskProfile)

	snap = testAdvisor().Normalize(context.Background(), models.AdviceRequest{RiskProfile: "Aggressive"}, nil, "")
	assert.Equal(t, models.RiskAggressive, snap.RiskProfile)
}
