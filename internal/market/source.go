package market

import (
	"context"

	"github.com/fincoach/fincoach/internal/models"
)

// Source supplies current reference prices. Implementations never fail:
// when a live quote cannot be obtained they degrade to a local fallback
// price, so callers always get a usable quote.
type Source interface {
	GetPrice(ctx context.Context, symbol string) models.PriceQuote
}
