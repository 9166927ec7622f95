package market

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincoach/fincoach/internal/config"
)

func newTestSource(baseURL string) *GeminiSource {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewGeminiSource(&config.Config{GeminiBaseURL: baseURL}, log)
}

func TestGetPriceLive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pubticker/btcusd", r.URL.Path)
		w.Write([]byte(`{"last":"61234.567","bid":"61200","ask":"61250"}`))
	}))
	defer server.Close()

	quote := newTestSource(server.URL).GetPrice(context.Background(), "btcusd")

	assert.Equal(t, "BTCUSD", quote.Symbol)
	assert.InDelta(t, 61234.57, quote.Price, 0.001)
	assert.False(t, quote.Timestamp.IsZero())
}

func TestGetPriceFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	quote := newTestSource(server.URL).GetPrice(context.Background(), "ethusd")

	assert.Equal(t, "ETHUSD", quote.Symbol)
	assert.GreaterOrEqual(t, quote.Price, 4000*0.97)
	assert.LessOrEqual(t, quote.Price, 4000*1.03)
}

func TestGetPriceFallsBackOnUnreachableHost(t *testing.T) {
	quote := newTestSource("http://127.0.0.1:1").GetPrice(context.Background(), "solusd")

	assert.Equal(t, "SOLUSD", quote.Symbol)
	assert.GreaterOrEqual(t, quote.Price, 150*0.97)
	assert.LessOrEqual(t, quote.Price, 150*1.03)
}

func TestGetPriceUnknownSymbolFallback(t *testing.T) {
	quote := newTestSource("http://127.0.0.1:1").GetPrice(context.Background(), "xyzusd")

	assert.Equal(t, "XYZUSD", quote.Symbol)
	assert.GreaterOrEqual(t, quote.Price, 0.97)
	assert.LessOrEqual(t, quote.Price, 1.03)
}

func TestGetPriceAlwaysRoundsToCents(t *testing.T) {
	source := newTestSource("http://127.0.0.1:1")
	for i := 0; i < 20; i++ {
		quote := source.GetPrice(context.Background(), "btcusd")
		scaled := quote.Price * 100
		assert.InDelta(t, math.Round(scaled), scaled, 1e-6, "price %v is not 2dp", quote.Price)
	}
}

func TestGetPriceMalformedBodyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	quote := newTestSource(server.URL).GetPrice(context.Background(), "btcusd")
	require.Equal(t, "BTCUSD", quote.Symbol)
	assert.Greater(t, quote.Price, 0.0)
}
