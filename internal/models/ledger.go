package models

import "time"

// LedgerEntry is a single signed monetary movement on an account.
// Negative amounts are debits (expenses), positive amounts are credits.
type LedgerEntry struct {
	ID          int64     `json:"id,omitempty"`
	AccountID   string    `json:"account_id,omitempty"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Merchant    string    `json:"merchant,omitempty"`
	Category    string    `json:"category,omitempty"`
	IsEssential bool      `json:"is_essential,omitempty"`
	IsAnt       bool      `json:"is_ant,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
