package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "https://api.gemini.com", cfg.GeminiBaseURL)
	assert.False(t, cfg.GeminiExecuteTrades)
	assert.Equal(t, "0 6 * * *", cfg.BillCronSpec)
	assert.Equal(t, []string{"payroll", "salary"}, cfg.PayrollKeywords)
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("GEMINI_EXECUTE_TRADES", "true")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.GeminiExecuteTrades)
}

func TestNewConfigInvalidTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestPayrollKeywordsParsing(t *testing.T) {
	t.Setenv("PAYROLL_KEYWORDS", "payroll, Salary ,nomina,")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"payroll", "salary", "nomina"}, cfg.PayrollKeywords)
}
