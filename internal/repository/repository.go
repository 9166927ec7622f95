package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fincoach/fincoach/internal/models"
)

// ErrNotFound is returned when a lookup matches no rows
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO fincoach.users (email, password_hash, first_name, last_name, monthly_income_sim, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.MonthlyIncomeSim).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, first_name, last_name,
		       COALESCE(nessie_customer_id, ''), COALESCE(primary_account_id, ''),
		       monthly_income_sim, created_at
		FROM fincoach.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
			&user.NessieCustomerID, &user.PrimaryAccountID, &user.MonthlyIncomeSim, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by primary key
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, first_name, last_name,
		       COALESCE(nessie_customer_id, ''), COALESCE(primary_account_id, ''),
		       monthly_income_sim, created_at
		FROM fincoach.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
			&user.NessieCustomerID, &user.PrimaryAccountID, &user.MonthlyIncomeSim, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateBankLink persists the provisioned banking customer and account IDs
func (r *Repository) UpdateBankLink(userID int64, customerID, accountID string) error {
	query := `
		UPDATE fincoach.users
		SET nessie_customer_id = $2, primary_account_id = $3
		WHERE id = $1`
	if _, err := r.db.Exec(query, userID, customerID, accountID); err != nil {
		return fmt.Errorf("failed to update bank link: %w", err)
	}
	return nil
}

// Append inserts a new ledger entry
func (r *Repository) Append(entry *models.LedgerEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO fincoach.ledger_entries (account_id, amount, description, merchant, category, is_essential, is_ant, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.db.QueryRow(query, entry.AccountID, entry.Amount, entry.Description,
		entry.Merchant, entry.Category, entry.IsEssential, entry.IsAnt, entry.CreatedAt).
		Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// SumByAccount returns the account balance as the sum of all ledger entries
func (r *Repository) SumByAccount(accountID string) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM fincoach.ledger_entries WHERE account_id = $1`
	if err := r.db.QueryRow(query, accountID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return total, nil
}

// RecentByAccount returns the most recent entries for an account, newest first
func (r *Repository) RecentByAccount(accountID string, limit int) ([]models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, amount, description, COALESCE(merchant, ''), COALESCE(category, ''),
		       is_essential, is_ant, created_at
		FROM fincoach.ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.Query(query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListSince returns all entries for an account created at or after the cutoff
func (r *Repository) ListSince(accountID string, since time.Time) ([]models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, amount, description, COALESCE(merchant, ''), COALESCE(category, ''),
		       is_essential, is_ant, created_at
		FROM fincoach.ledger_entries
		WHERE account_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`
	rows, err := r.db.Query(query, accountID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Amount, &e.Description,
			&e.Merchant, &e.Category, &e.IsEssential, &e.IsAnt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

// GetStreak retrieves a user's streak
func (r *Repository) GetStreak(userID int64) (*models.Streak, error) {
	st := &models.Streak{}
	query := `SELECT user_id, day_count, last_checkin_date FROM fincoach.streaks WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&st.UserID, &st.DayCount, &st.LastCheckinDate)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return st, nil
}

// UpsertStreak inserts or updates a user's streak
func (r *Repository) UpsertStreak(st *models.Streak) error {
	query := `
		INSERT INTO fincoach.streaks (user_id, day_count, last_checkin_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET day_count = EXCLUDED.day_count, last_checkin_date = EXCLUDED.last_checkin_date`
	if _, err := r.db.Exec(query, st.UserID, st.DayCount, st.LastCheckinDate); err != nil {
		return fmt.Errorf("failed to upsert streak: %w", err)
	}
	return nil
}

// CreateGoal creates a new savings goal
func (r *Repository) CreateGoal(goal *models.Goal) error {
	query := `
		INSERT INTO fincoach.goals (user_id, name, target_amount, due_date, progress, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, goal.UserID, goal.Name, goal.TargetAmount, goal.DueDate, goal.Progress).
		Scan(&goal.ID, &goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// ListGoals returns all goals for a user
func (r *Repository) ListGoals(userID int64) ([]models.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, due_date, progress, created_at
		FROM fincoach.goals
		WHERE user_id = $1
		ORDER BY created_at`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.DueDate, &g.Progress, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}

// CreateBill schedules a future bill payment
func (r *Repository) CreateBill(bill *models.ScheduledBill) error {
	query := `
		INSERT INTO fincoach.scheduled_bills (account_id, payee, amount, payment_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, bill.AccountID, bill.Payee, bill.Amount, bill.PaymentDate, bill.Status).
		Scan(&bill.ID, &bill.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// DueBills returns pending bills whose payment date has arrived
func (r *Repository) DueBills(asOf time.Time) ([]models.ScheduledBill, error) {
	query := `
		SELECT id, account_id, payee, amount, payment_date, status, created_at
		FROM fincoach.scheduled_bills
		WHERE status = $1 AND payment_date <= $2
		ORDER BY payment_date`
	rows, err := r.db.Query(query, models.BillPending, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due bills: %w", err)
	}
	defer rows.Close()

	var bills []models.ScheduledBill
	for rows.Next() {
		var b models.ScheduledBill
		if err := rows.Scan(&b.ID, &b.AccountID, &b.Payee, &b.Amount, &b.PaymentDate, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// MarkBillPaid transitions a bill to paid
func (r *Repository) MarkBillPaid(id int64) error {
	query := `UPDATE fincoach.scheduled_bills SET status = $2 WHERE id = $1`
	if _, err := r.db.Exec(query, id, models.BillPaid); err != nil {
		return fmt.Errorf("failed to mark bill paid: %w", err)
	}
	return nil
}
