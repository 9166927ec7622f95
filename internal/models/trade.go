package models

import (
	"encoding/json"
	"time"
)

// TradeResult describes the outcome of a trade request. Simulated trades
// fill the price/qty fields with Simulated true. Real order placement
// sets Executed; rejected or failed real orders carry Error and
// StatusCode instead of raising, so callers can render the failure.
type TradeResult struct {
	Symbol        string          `json:"symbol,omitempty"`
	Side          string          `json:"side,omitempty"`
	AmountUSD     float64         `json:"amount_usd,omitempty"`
	ExecutedPrice float64         `json:"executed_price,omitempty"`
	Qty           float64         `json:"qty,omitempty"`
	Simulated     bool            `json:"simulated,omitempty"`
	Executed      bool            `json:"executed"`
	APIResponse   json.RawMessage `json:"api_response,omitempty"`
	Error         string          `json:"error,omitempty"`
	StatusCode    int             `json:"status_code,omitempty"`
	Timestamp     time.Time       `json:"ts"`
}
