package models

import "time"

// Bill statuses
const (
	BillPending = "pending"
	BillPaid    = "paid"
)

// ScheduledBill is a future payment applied to the ledger by the daily
// bill job once its payment date arrives (demo mode), or delegated to
// the banking sandbox's bill API (real mode).
type ScheduledBill struct {
	ID          int64     `json:"id"`
	AccountID   string    `json:"account_id"`
	Payee       string    `json:"payee"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
