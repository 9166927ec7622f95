package models

import "time"

// PriceQuote is a point-in-time reference price for a symbol. Symbol is
// always uppercased, price rounded to 2 decimal places. Quotes are never
// persisted; each lookup produces a fresh one.
type PriceQuote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"ts"`
}
