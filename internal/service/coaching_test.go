package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincoach/fincoach/internal/banking"
	"github.com/fincoach/fincoach/internal/config"
	"github.com/fincoach/fincoach/internal/middleware"
	"github.com/fincoach/fincoach/internal/models"
	"github.com/fincoach/fincoach/internal/repository"
)

// fakeStore implements both the service store and the banking store
type fakeStore struct {
	users   map[int64]*models.User
	entries []models.LedgerEntry
	streaks map[int64]*models.Streak
	goals   []models.Goal
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[int64]*models.User),
		streaks: make(map[int64]*models.Streak),
	}
}

func (f *fakeStore) CreateUser(user *models.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) FindUserByID(id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) Append(entry *models.LedgerEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeStore) SumByAccount(accountID string) (float64, error) {
	total := 0.0
	for _, e := range f.entries {
		if e.AccountID == accountID {
			total += e.Amount
		}
	}
	return total, nil
}

func (f *fakeStore) RecentByAccount(accountID string, limit int) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].AccountID == accountID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeStore) ListSince(accountID string, since time.Time) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for _, e := range f.entries {
		if e.AccountID == accountID && e.CreatedAt.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetStreak(userID int64) (*models.Streak, error) {
	if st, ok := f.streaks[userID]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) UpsertStreak(st *models.Streak) error {
	cp := *st
	f.streaks[st.UserID] = &cp
	return nil
}

func (f *fakeStore) CreateGoal(goal *models.Goal) error {
	goal.ID = int64(len(f.goals) + 1)
	f.goals = append(f.goals, *goal)
	return nil
}

func (f *fakeStore) ListGoals(userID int64) ([]models.Goal, error) {
	var out []models.Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateBill(bill *models.ScheduledBill) error { return nil }

func (f *fakeStore) UpdateBankLink(userID int64, customerID, accountID string) error {
	if u, ok := f.users[userID]; ok {
		u.NessieCustomerID = customerID
		u.PrimaryAccountID = accountID
	}
	return nil
}

func testService(store *fakeStore) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	bank := banking.NewClient(cfg, store, log)
	return NewService(store, bank, nil, nil, nil, log, cfg)
}

func authedCtx(userID string) context.Context {
	return middleware.ContextWithUserID(context.Background(), userID)
}

func seedUser(store *fakeStore) *models.User {
	user := &models.User{
		Email:            "hanna@example.com",
		FirstName:        "Hanna",
		NessieCustomerID: "LOCALCUST-SEEDED001",
		PrimaryAccountID: "LOCALACC-SEEDED001",
		MonthlyIncomeSim: 20000,
	}
	store.CreateUser(user)
	return user
}

func TestCheckInFirstDay(t *testing.T) {
	store := newFakeStore()
	seedUser(store)
	svc := testService(store)

	st, err := svc.CheckIn(authedCtx("1"))
	require.NoError(t, err)
	assert.Equal(t, 1, st.DayCount)
}

func TestCheckInSameDayIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seedUser(store)
	svc := testService(store)
	ctx := authedCtx("1")

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)
	st, err := svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.DayCount)
}

func TestCheckInNewDayIncrements(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store)
	svc := testService(store)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	store.streaks[user.ID] = &models.Streak{UserID: user.ID, DayCount: 4, LastCheckinDate: yesterday}

	st, err := svc.CheckIn(authedCtx("1"))
	require.NoError(t, err)
	assert.Equal(t, 5, st.DayCount)
}

func TestCheckInGapDoesNotReset(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store)
	svc := testService(store)

	lastWeek := time.Now().UTC().AddDate(0, 0, -8)
	store.streaks[user.ID] = &models.Streak{UserID: user.ID, DayCount: 12, LastCheckinDate: lastWeek}

	st, err := svc.CheckIn(authedCtx("1"))
	require.NoError(t, err)
	assert.Equal(t, 13, st.DayCount)
}

func TestCheckInRequiresAuth(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	_, err := svc.CheckIn(context.Background())
	assert.Error(t, err)
}

func TestBudgetSummaryClassification(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store)
	svc := testService(store)
	now := time.Now().UTC()
	acc := user.PrimaryAccountID

	store.entries = []models.LedgerEntry{
		{AccountID: acc, Amount: 5000, Description: "Payroll deposit", CreatedAt: now.Add(-time.Hour)},
		{AccountID: acc, Amount: -1000, Category: "housing", Merchant: "Landlord", CreatedAt: now.Add(-2 * time.Hour)},
		{AccountID: acc, Amount: -300, Category: "utilities", Merchant: "Electric Co", CreatedAt: now.Add(-3 * time.Hour)},
		{AccountID: acc, Amount: -45.50, Merchant: "Coffee Corner", CreatedAt: now.Add(-4 * time.Hour)},
		{AccountID: acc, Amount: -30, Merchant: "Coffee Corner", CreatedAt: now.Add(-5 * time.Hour)},
		{AccountID: acc, Amount: -12, Merchant: "Snack Cart", CreatedAt: now.Add(-6 * time.Hour)},
		// Large discretionary spend is neither essential nor ant
		{AccountID: acc, Amount: -900, Merchant: "Furniture Hub", CreatedAt: now.Add(-7 * time.Hour)},
		// Outside the 30 day window
		{AccountID: acc, Amount: -50, Merchant: "Old Cafe", CreatedAt: now.AddDate(0, 0, -40)},
	}

	sum, err := svc.BudgetSummary(authedCtx("1"))
	require.NoError(t, err)

	assert.InDelta(t, 1300.0, sum.SurvivalMin, 0.001)
	assert.InDelta(t, 87.50, sum.AntSpend, 0.001)
	assert.InDelta(t, 18700.0, sum.Cushion, 0.001)

	require.NotEmpty(t, sum.TopAnt)
	assert.Equal(t, "Coffee Corner", sum.TopAnt[0].Merchant)
	assert.InDelta(t, 75.50, sum.TopAnt[0].Amount, 0.001)
}

func TestBudgetSummaryTopAntCapped(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store)
	svc := testService(store)
	now := time.Now().UTC()

	merchants := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, m := range merchants {
		store.entries = append(store.entries, models.LedgerEntry{
			AccountID: user.PrimaryAccountID,
			Amount:    -float64(10 + i),
			Merchant:  m,
			CreatedAt: now.Add(-time.Hour),
		})
	}

	sum, err := svc.BudgetSummary(authedCtx("1"))
	require.NoError(t, err)
	assert.Len(t, sum.TopAnt, 5)
	assert.Equal(t, "G", sum.TopAnt[0].Merchant)
}

func TestGoals(t *testing.T) {
	store := newFakeStore()
	seedUser(store)
	svc := testService(store)
	ctx := authedCtx("1")

	due := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	goal, err := svc.CreateGoal(ctx, "Emergency fund", 3000, &due)
	require.NoError(t, err)
	assert.NotZero(t, goal.ID)

	goals, err := svc.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Emergency fund", goals[0].Name)
}

func TestTradeRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeStore()
	seedUser(store)
	svc := testService(store)

	_, err := svc.Trade(authedCtx("1"), "buy", 0, "BTCUSD")
	assert.Error(t, err)
	_, err = svc.Trade(authedCtx("1"), "buy", -10, "BTCUSD")
	assert.Error(t, err)
}
