package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string
	TokenTTL  time.Duration

	// Nessie sandbox. An empty API key switches the banking layer to demo
	// mode: local IDs and ledger writes instead of remote calls.
	NessieAPIKey  string
	NessieBaseURL string

	// Gemini exchange (quotes always, order placement only when key,
	// secret and the execute flag are all set).
	GeminiBaseURL       string
	GeminiAPIKey        string
	GeminiAPISecret     string
	GeminiExecuteTrades bool

	// AI coach
	AnthropicAPIKey string
	CoachModel      string

	// Central-bank key rate feed
	CBRURL string

	// Scheduled bill processing
	BillCronSpec string

	// SMTP (welcome emails); empty host disables sending
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	// Case-insensitive substrings treated as recurring income markers.
	// The default set matches only English payroll descriptions; widen it
	// via PAYROLL_KEYWORDS for localized data (e.g. "nomina").
	PayrollKeywords []string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	// .env is optional; system environment always wins
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBConn:    getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=fincoach sslmode=disable"),
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		JWTSecret: getEnv("JWT_SECRET", "secret"),
		TokenTTL:  ttl,

		NessieAPIKey:  getEnv("NESSIE_API_KEY", ""),
		NessieBaseURL: getEnv("NESSIE_BASE_URL", "http://api.nessieisreal.com"),

		GeminiBaseURL:       getEnv("GEMINI_BASE_URL", "https://api.gemini.com"),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiAPISecret:     getEnv("GEMINI_API_SECRET", ""),
		GeminiExecuteTrades: getEnv("GEMINI_EXECUTE_TRADES", "false") == "true",

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		CoachModel:      getEnv("COACH_MODEL", "claude-sonnet-4-5"),

		CBRURL: getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),

		BillCronSpec: getEnv("BILL_CRON_SPEC", "0 6 * * *"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "coach@fincoach.local"),

		PayrollKeywords: splitKeywords(getEnv("PAYROLL_KEYWORDS", "payroll,salary")),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitKeywords(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
