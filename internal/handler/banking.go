package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Bootstrap provisions the banking customer and account for the user
func (h *Handler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	custID, accID, err := h.svc.Bootstrap(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"customer_id": custID, "account_id": accID})
}

type paycheckIn struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// SimulatePaycheck deposits a payroll amount into the primary account
func (h *Handler) SimulatePaycheck(w http.ResponseWriter, r *http.Request) {
	var in paycheckIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	res, err := h.svc.SimulatePaycheck(r.Context(), in.Amount, in.Description)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "deposit": res})
}

type billIn struct {
	Payee       string  `json:"payee"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

// ScheduleBill registers a future bill payment
func (h *Handler) ScheduleBill(w http.ResponseWriter, r *http.Request) {
	var in billIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Payee == "" || in.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "payee and a positive amount are required")
		return
	}
	paymentDate, err := time.Parse("2006-01-02", in.PaymentDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "payment_date must be YYYY-MM-DD")
		return
	}

	bill, err := h.svc.ScheduleBill(r.Context(), in.Payee, in.Amount, paymentDate)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, bill)
}

type transferIn struct {
	ToAccountID string  `json:"to_account_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Transfer moves money from the primary account to another account
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var in transferIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if in.ToAccountID == "" {
		h.writeError(w, http.StatusBadRequest, "to_account_id is required")
		return
	}

	fromAccount, err := h.svc.Transfer(r.Context(), in.ToAccountID, in.Amount, in.Description)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"from":   fromAccount,
		"to":     in.ToAccountID,
		"amount": in.Amount,
	})
}

// Balance returns the primary account's computed balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	accID, balance, err := h.svc.Balance(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"account_id": accID, "balance": balance})
}

// Transactions lists recent ledger entries for the primary account
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	accID, entries, err := h.svc.Transactions(r.Context(), limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"account_id": accID, "transactions": entries})
}
