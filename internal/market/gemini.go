package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/config"
	"github.com/fincoach/fincoach/internal/models"
	"github.com/fincoach/fincoach/internal/utils"
)

// Demo base prices used when the live ticker is unreachable
var basePrices = map[string]float64{
	"BTCUSD": 60000.0,
	"ETHUSD": 4000.0,
	"SOLUSD": 150.0,
}

// GeminiSource fetches quotes from the Gemini public ticker, falling
// back to a perturbed demo price on any failure.
type GeminiSource struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// NewGeminiSource initializes a new quote source
func NewGeminiSource(cfg *config.Config, log *logrus.Logger) *GeminiSource {
	return &GeminiSource{
		baseURL: strings.TrimRight(cfg.GeminiBaseURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		log: log,
	}
}

// GetPrice returns a quote for the symbol. The symbol is uppercased and
// the price rounded to 2 decimals regardless of which path produced it.
func (s *GeminiSource) GetPrice(ctx context.Context, symbol string) models.PriceQuote {
	norm := strings.ToUpper(symbol)

	price, err := s.fetchLast(ctx, norm)
	if err != nil {
		s.log.Debugf("Live quote for %s unavailable, using fallback: %v", norm, err)
		price = fallbackPrice(norm)
	}

	return models.PriceQuote{
		Symbol:    norm,
		Price:     utils.Round2(price),
		Timestamp: time.Now().UTC(),
	}
}

// fetchLast queries the public ticker endpoint, which expects lowercase
// symbols and reports the last price as a string.
func (s *GeminiSource) fetchLast(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/v1/pubticker/%s", s.baseURL, strings.ToLower(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode ticker response: %w", err)
	}

	for _, key := range []string{"last", "last_price", "close"} {
		if price, ok := asFloat(body[key]); ok && price > 0 {
			return price, nil
		}
	}
	return 0, fmt.Errorf("no price field in ticker response")
}

// fallbackPrice perturbs the demo base price by a uniform factor in
// [-3%, +3%]. Unknown symbols get a base of 1.
func fallbackPrice(symbol string) float64 {
	base, ok := basePrices[symbol]
	if !ok {
		base = 1.0
	}
	return base * (1 + (rand.Float64()*0.06 - 0.03))
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
