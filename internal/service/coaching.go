package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fincoach/fincoach/internal/models"
	"github.com/fincoach/fincoach/internal/repository"
	"github.com/fincoach/fincoach/internal/utils"
)

// budgetWindow is the lookback for the budget summary
const budgetWindow = 30 * 24 * time.Hour

// antExpenseLimit bounds what still counts as an "ant" expense
const antExpenseLimit = 150.0

// essentialCategories are never classified as ant spend
var essentialCategories = map[string]bool{
	"housing":         true,
	"utilities":       true,
	"transport":       true,
	"groceries_basic": true,
	"debt":            true,
}

// CheckIn records a daily streak check-in. The count grows once per
// calendar day; repeated check-ins the same day are idempotent. Missed
// days do not reset the count.
func (s *Service) CheckIn(ctx context.Context) (*models.Streak, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	st, err := s.store.GetStreak(user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		st = &models.Streak{UserID: user.ID, DayCount: 1, LastCheckinDate: today}
		if err := s.store.UpsertStreak(st); err != nil {
			return nil, err
		}
		return st, nil
	}
	if err != nil {
		return nil, err
	}

	if !sameDay(st.LastCheckinDate, today) {
		st.DayCount++
		st.LastCheckinDate = today
		if err := s.store.UpsertStreak(st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BudgetSummary classifies the last 30 days of debits into essential
// spend and ant expenses, and reports the cushion left after covering
// the essentials from the simulated monthly income.
func (s *Service) BudgetSummary(ctx context.Context) (*models.BudgetSummary, error) {
	user, accID, err := s.accountFor(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListSince(accID, time.Now().UTC().Add(-budgetWindow))
	if err != nil {
		return nil, err
	}

	essentialTotal := 0.0
	antTotal := 0.0
	antByMerchant := map[string]float64{}

	for _, e := range entries {
		if e.Amount >= 0 {
			continue
		}
		abs := -e.Amount
		switch {
		case essentialCategories[e.Category] || e.IsEssential:
			essentialTotal += abs
		case (abs < antExpenseLimit) || e.IsAnt:
			antTotal += abs
			antByMerchant[e.Merchant] += abs
		}
	}

	topAnt := make([]models.MerchantSpend, 0, len(antByMerchant))
	for merchant, amount := range antByMerchant {
		topAnt = append(topAnt, models.MerchantSpend{Merchant: merchant, Amount: utils.Round2(amount)})
	}
	sort.Slice(topAnt, func(i, j int) bool { return topAnt[i].Amount > topAnt[j].Amount })
	if len(topAnt) > 5 {
		topAnt = topAnt[:5]
	}

	return &models.BudgetSummary{
		SurvivalMin: utils.Round2(essentialTotal),
		AntSpend:    utils.Round2(antTotal),
		TopAnt:      topAnt,
		Cushion:     utils.Round2(user.MonthlyIncomeSim - essentialTotal),
	}, nil
}

// CreateGoal creates a savings goal for the authenticated user
func (s *Service) CreateGoal(ctx context.Context, name string, targetAmount float64, dueDate *time.Time) (*models.Goal, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	goal := &models.Goal{
		UserID:       user.ID,
		Name:         name,
		TargetAmount: targetAmount,
		DueDate:      dueDate,
	}
	if err := s.store.CreateGoal(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// ListGoals returns the authenticated user's goals
func (s *Service) ListGoals(ctx context.Context) ([]models.Goal, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListGoals(user.ID)
}

// Advise normalizes the request against the user's ledger and runs the
// recommendation engine.
func (s *Service) Advise(ctx context.Context, req models.AdviceRequest) (models.AdviceResult, error) {
	user, accID, err := s.accountFor(ctx)
	if err != nil {
		return models.AdviceResult{}, err
	}

	snap := s.advisor.Normalize(ctx, req, s.store, accID)
	snap.DisplayName = user.FirstName

	return s.advisor.Generate(ctx, snap), nil
}

// Trade executes a simulated (or real, when configured) trade against
// the user's primary account.
func (s *Service) Trade(ctx context.Context, side string, amountUSD float64, symbol string) (models.TradeResult, error) {
	if amountUSD <= 0 {
		return models.TradeResult{}, fmt.Errorf("amount_usd must be positive")
	}
	_, accID, err := s.accountFor(ctx)
	if err != nil {
		return models.TradeResult{}, err
	}
	return s.trader.Execute(ctx, accID, side, amountUSD, symbol), nil
}
