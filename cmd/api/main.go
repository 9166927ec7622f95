package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/advisor"
	"github.com/fincoach/fincoach/internal/banking"
	"github.com/fincoach/fincoach/internal/coach"
	"github.com/fincoach/fincoach/internal/config"
	"github.com/fincoach/fincoach/internal/handler"
	"github.com/fincoach/fincoach/internal/market"
	"github.com/fincoach/fincoach/internal/middleware"
	"github.com/fincoach/fincoach/internal/rates"
	"github.com/fincoach/fincoach/internal/repository"
	"github.com/fincoach/fincoach/internal/scheduler"
	"github.com/fincoach/fincoach/internal/service"
	"github.com/fincoach/fincoach/internal/trading"
	"github.com/fincoach/fincoach/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	prices := market.NewGeminiSource(cfg, logger)
	adv := advisor.New(prices, cfg.PayrollKeywords, logger)
	trader := trading.NewSimulator(prices, repo, cfg, logger)
	bank := banking.NewClient(cfg, repo, logger)
	mailer := email.NewSender(cfg, logger)
	svc := service.NewService(repo, bank, adv, trader, mailer, logger, cfg)

	ratesClient, err := rates.NewClient(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create rates client: %v", err)
	}
	coachClient := coach.New(cfg, logger)
	h := handler.NewHandler(svc, coachClient, ratesClient, prices, logger)

	// Scheduled bill processing
	sched := scheduler.New(repo, logger)
	if err := sched.Start(cfg.BillCronSpec); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/rates/key-rate", h.KeyRate).Methods("GET")
	r.HandleFunc("/gemini/price", h.Price).Methods("GET")
	r.HandleFunc("/market/stream", h.StreamPrices).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/auth/me", h.Me).Methods("GET")
	authRouter.HandleFunc("/nessie/bootstrap", h.Bootstrap).Methods("POST")
	authRouter.HandleFunc("/nessie/simulate-paycheck", h.SimulatePaycheck).Methods("POST")
	authRouter.HandleFunc("/nessie/schedule-bill", h.ScheduleBill).Methods("POST")
	authRouter.HandleFunc("/nessie/transfer", h.Transfer).Methods("POST")
	authRouter.HandleFunc("/nessie/balance", h.Balance).Methods("GET")
	authRouter.HandleFunc("/nessie/transactions", h.Transactions).Methods("GET")
	authRouter.HandleFunc("/gemini/advise", h.Advise).Methods("POST")
	authRouter.HandleFunc("/gemini/trade", h.Trade).Methods("POST")
	authRouter.HandleFunc("/streak/checkin", h.CheckIn).Methods("POST")
	authRouter.HandleFunc("/streak", h.GetStreak).Methods("GET")
	authRouter.HandleFunc("/budget/summary", h.BudgetSummary).Methods("GET")
	authRouter.HandleFunc("/goals", h.CreateGoal).Methods("POST")
	authRouter.HandleFunc("/goals", h.ListGoals).Methods("GET")
	authRouter.HandleFunc("/ai/coach", h.CoachChat).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
