package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fincoach/fincoach/internal/models"
)

// Advise runs the recommendation engine over the caller's snapshot
func (h *Handler) Advise(w http.ResponseWriter, r *http.Request) {
	var req models.AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Advise(r.Context(), req)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

type tradeIn struct {
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	AmountUSD float64 `json:"amount_usd"`
}

// Trade executes a simulated (or configured-real) trade
func (h *Handler) Trade(w http.ResponseWriter, r *http.Request) {
	var in tradeIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.AmountUSD <= 0 {
		h.writeError(w, http.StatusBadRequest, "amount_usd must be positive")
		return
	}
	if in.Symbol == "" {
		h.writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	res, err := h.svc.Trade(r.Context(), in.Side, in.AmountUSD, in.Symbol)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// CheckIn records a daily streak check-in
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.CheckIn(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

// GetStreak returns the streak, creating it on first read
func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	// Reading the streak also counts as a check-in (matches the app's
	// "open the dashboard" gamification semantics)
	h.CheckIn(w, r)
}

// BudgetSummary returns the 30-day essential vs ant-spend breakdown
func (h *Handler) BudgetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.BudgetSummary(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

type goalIn struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	DueDate      string  `json:"due_date"`
}

// CreateGoal creates a savings goal
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var in goalIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Name == "" || in.TargetAmount <= 0 {
		h.writeError(w, http.StatusBadRequest, "name and a positive target_amount are required")
		return
	}

	var dueDate *time.Time
	if in.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
			return
		}
		dueDate = &parsed
	}

	goal, err := h.svc.CreateGoal(r.Context(), in.Name, in.TargetAmount, dueDate)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, goal)
}

// ListGoals lists the user's savings goals
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.ListGoals(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	h.writeJSON(w, http.StatusOK, goals)
}
