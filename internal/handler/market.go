package handler

import (
	"net/http"
	"time"

	"github.com/fincoach/fincoach/internal/models"
)

// Symbols pushed on the live price stream
var streamSymbols = []string{"BTCUSD", "ETHUSD", "SOLUSD"}

const streamInterval = 3 * time.Second

// Price returns a quote for a single symbol. Quote lookups never fail:
// an unreachable exchange degrades to a demo fallback price.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = "BTCUSD"
	}
	h.writeJSON(w, http.StatusOK, h.prices.GetPrice(r.Context(), symbol))
}

// StreamPrices upgrades to a websocket and pushes quotes for the fixed
// symbol set every few seconds until the client disconnects.
func (h *Handler) StreamPrices(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("Failed to upgrade price stream: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		quotes := make([]models.PriceQuote, 0, len(streamSymbols))
		for _, symbol := range streamSymbols {
			quotes = append(quotes, h.prices.GetPrice(ctx, symbol))
		}
		if err := conn.WriteJSON(quotes); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
