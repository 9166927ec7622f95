package trading

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/config"
	"github.com/fincoach/fincoach/internal/market"
	"github.com/fincoach/fincoach/internal/models"
	"github.com/fincoach/fincoach/internal/utils"
)

// Trade sides
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Ledger is the write-only slice of the store the simulator needs
type Ledger interface {
	Append(entry *models.LedgerEntry) error
}

// Simulator converts a notional USD amount into a simulated position and
// records the balance effect as a ledger entry. When exchange credentials
// and the execute flag are configured, it delegates order placement to
// the real exchange instead, still recording the ledger delta on success.
type Simulator struct {
	prices market.Source
	ledger Ledger
	cfg    *config.Config
	client *http.Client
	log    *logrus.Logger
}

// NewSimulator initializes a new trade simulator
func NewSimulator(prices market.Source, ledger Ledger, cfg *config.Config, log *logrus.Logger) *Simulator {
	return &Simulator{
		prices: prices,
		ledger: ledger,
		cfg:    cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Execute performs a trade for the account. amountUSD is validated as
// positive at the HTTP boundary, not here. Ledger append failures are
// absorbed: the trade result is still returned and the failure logged.
func (s *Simulator) Execute(ctx context.Context, accountID, side string, amountUSD float64, symbol string) models.TradeResult {
	symbolNorm := strings.ToUpper(symbol)
	sideNorm := strings.ToLower(side)

	quote := s.prices.GetPrice(ctx, symbolNorm)
	executedPrice := quote.Price

	qty := 0.0
	if executedPrice != 0 {
		qty = utils.Round8(amountUSD / executedPrice)
	}

	if s.realExecutionConfigured() {
		return s.placeOrder(ctx, accountID, sideNorm, amountUSD, symbolNorm, executedPrice, qty)
	}

	s.recordDelta(accountID, sideNorm, amountUSD, symbolNorm, "demo")

	return models.TradeResult{
		Symbol:        symbolNorm,
		Side:          sideNorm,
		AmountUSD:     amountUSD,
		ExecutedPrice: executedPrice,
		Qty:           qty,
		Simulated:     true,
		Timestamp:     time.Now().UTC(),
	}
}

func (s *Simulator) realExecutionConfigured() bool {
	return s.cfg.GeminiAPIKey != "" && s.cfg.GeminiAPISecret != "" && s.cfg.GeminiExecuteTrades
}

// placeOrder submits a limit order at the current price via the signed
// private endpoint. Order rejection is a structured result, not an error.
func (s *Simulator) placeOrder(ctx context.Context, accountID, side string, amountUSD float64, symbol string, price, qty float64) models.TradeResult {
	payload := map[string]string{
		"request": "/v1/order/new",
		"nonce":   strconv.FormatInt(time.Now().UnixMilli(), 10),
		"symbol":  strings.ToLower(symbol),
		"amount":  strconv.FormatFloat(qty, 'f', -1, 64),
		"price":   strconv.FormatFloat(price, 'f', -1, 64),
		"side":    side,
		"type":    "exchange limit",
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return models.TradeResult{Executed: false, Error: fmt.Sprintf("failed to encode order: %v", err), Timestamp: time.Now().UTC()}
	}

	// Exchange request signing: HMAC-SHA384 over the base64 payload
	b64 := base64.StdEncoding.EncodeToString(raw)
	mac := hmac.New(sha512.New384, []byte(s.cfg.GeminiAPISecret))
	mac.Write([]byte(b64))
	signature := hex.EncodeToString(mac.Sum(nil))

	url := strings.TrimRight(s.cfg.GeminiBaseURL, "/") + "/v1/order/new"
	// The payload travels in the headers; the body stays empty
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return models.TradeResult{Executed: false, Error: fmt.Sprintf("failed to create request: %v", err), Timestamp: time.Now().UTC()}
	}
	req.Header.Set("X-GEMINI-APIKEY", s.cfg.GeminiAPIKey)
	req.Header.Set("X-GEMINI-PAYLOAD", b64)
	req.Header.Set("X-GEMINI-SIGNATURE", signature)

	resp, err := s.client.Do(req)
	if err != nil {
		return models.TradeResult{Executed: false, Error: err.Error(), Timestamp: time.Now().UTC()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.TradeResult{Executed: false, Error: fmt.Sprintf("failed to read response: %v", err), StatusCode: resp.StatusCode, Timestamp: time.Now().UTC()}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return models.TradeResult{
			Executed:   false,
			Error:      string(body),
			StatusCode: resp.StatusCode,
			Timestamp:  time.Now().UTC(),
		}
	}

	s.recordDelta(accountID, side, amountUSD, symbol, "gemini")

	return models.TradeResult{
		Executed:    true,
		APIResponse: json.RawMessage(body),
		Timestamp:   time.Now().UTC(),
	}
}

// recordDelta appends the USD balance effect of the trade to the ledger:
// buys debit the account, sells credit it. Best-effort bookkeeping.
func (s *Simulator) recordDelta(accountID, side string, amountUSD float64, symbol, mode string) {
	if s.ledger == nil || accountID == "" {
		return
	}
	delta := amountUSD
	if side == SideBuy {
		delta = -amountUSD
	}
	entry := &models.LedgerEntry{
		AccountID:   accountID,
		Amount:      delta,
		Description: fmt.Sprintf("%s %s %s $%.2f", mode, side, symbol, amountUSD),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ledger.Append(entry); err != nil {
		s.log.Warnf("Failed to record trade delta for %s: %v", accountID, err)
	}
}
