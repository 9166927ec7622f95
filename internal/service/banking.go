package service

import (
	"context"
	"time"

	"github.com/fincoach/fincoach/internal/models"
)

// Bootstrap provisions the banking customer and primary account for the
// authenticated user and returns both IDs.
func (s *Service) Bootstrap(ctx context.Context) (string, string, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return "", "", err
	}
	return s.bank.EnsureCustomerAndAccount(ctx, user, nil)
}

// SimulatePaycheck deposits a payroll amount into the primary account
func (s *Service) SimulatePaycheck(ctx context.Context, amount float64, description string) (map[string]any, error) {
	_, accID, err := s.accountFor(ctx)
	if err != nil {
		return nil, err
	}
	if description == "" {
		description = "Payroll deposit"
	}
	res, err := s.bank.Deposit(ctx, accID, amount, description)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Paycheck of %.2f deposited to %s", amount, accID)
	return res, nil
}

// ScheduleBill registers a future bill payment against the primary account
func (s *Service) ScheduleBill(ctx context.Context, payee string, amount float64, paymentDate time.Time) (*models.ScheduledBill, error) {
	_, accID, err := s.accountFor(ctx)
	if err != nil {
		return nil, err
	}
	return s.bank.ScheduleBill(ctx, accID, payee, amount, paymentDate)
}

// Transfer moves money from the primary account to another account
func (s *Service) Transfer(ctx context.Context, toAccount string, amount float64, description string) (string, error) {
	_, accID, err := s.accountFor(ctx)
	if err != nil {
		return "", err
	}
	if description == "" {
		description = "Transfer"
	}
	if err := s.bank.Transfer(ctx, accID, toAccount, amount, description); err != nil {
		return "", err
	}
	s.log.Infof("Transfer of %.2f from %s to %s", amount, accID, toAccount)
	return accID, nil
}

// Balance computes the primary account balance as the ledger sum
func (s *Service) Balance(ctx context.Context) (string, float64, error) {
	_, accID, err := s.accountFor(ctx)
	if err != nil {
		return "", 0, err
	}
	total, err := s.store.SumByAccount(accID)
	if err != nil {
		return "", 0, err
	}
	return accID, total, nil
}

// Transactions returns the most recent ledger entries, newest first
func (s *Service) Transactions(ctx context.Context, limit int) (string, []models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	_, accID, err := s.accountFor(ctx)
	if err != nil {
		return "", nil, err
	}
	entries, err := s.store.RecentByAccount(accID, limit)
	if err != nil {
		return "", nil, err
	}
	return accID, entries, nil
}
