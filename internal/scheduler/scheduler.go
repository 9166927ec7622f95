package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/models"
)

// BillStore is the slice of persistence the bill job needs
type BillStore interface {
	DueBills(asOf time.Time) ([]models.ScheduledBill, error)
	Append(entry *models.LedgerEntry) error
	MarkBillPaid(id int64) error
}

// Scheduler runs periodic jobs. Currently one: applying due scheduled
// bills to the ledger.
type Scheduler struct {
	cron  *cron.Cron
	store BillStore
	log   *logrus.Logger
}

// New initializes the scheduler
func New(store BillStore, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		store: store,
		log:   log,
	}
}

// Start registers the bill job under the given cron spec and starts the
// scheduler in its own goroutine.
func (s *Scheduler) Start(billSpec string) error {
	if _, err := s.cron.AddFunc(billSpec, s.applyDueBills); err != nil {
		return fmt.Errorf("failed to schedule bill job: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Bill scheduler started with spec %q", billSpec)
	return nil
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// applyDueBills debits each due bill from its account and marks it paid.
// A failure on one bill is logged and does not block the others.
func (s *Scheduler) applyDueBills() {
	bills, err := s.store.DueBills(time.Now().UTC())
	if err != nil {
		s.log.Errorf("Failed to load due bills: %v", err)
		return
	}

	for _, bill := range bills {
		entry := &models.LedgerEntry{
			AccountID:   bill.AccountID,
			Amount:      -bill.Amount,
			Description: fmt.Sprintf("Bill payment: %s", bill.Payee),
		}
		if err := s.store.Append(entry); err != nil {
			s.log.Errorf("Failed to apply bill %d (%s): %v", bill.ID, bill.Payee, err)
			continue
		}
		if err := s.store.MarkBillPaid(bill.ID); err != nil {
			s.log.Errorf("Failed to mark bill %d paid: %v", bill.ID, err)
			continue
		}
		s.log.Infof("Applied bill %d: %s %.2f to %s", bill.ID, bill.Payee, bill.Amount, bill.AccountID)
	}
}
