package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/coach"
	"github.com/fincoach/fincoach/internal/market"
	"github.com/fincoach/fincoach/internal/models"
	"github.com/fincoach/fincoach/internal/rates"
	"github.com/fincoach/fincoach/internal/service"
)

// Handler wires HTTP requests to the service layer
type Handler struct {
	svc      *service.Service
	coach    *coach.Coach
	rates    *rates.Client
	prices   market.Source
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, coachClient *coach.Coach, ratesClient *rates.Client, prices market.Source, log *logrus.Logger) *Handler {
	return &Handler{
		svc:    svc,
		coach:  coachClient,
		rates:  ratesClient,
		prices: prices,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerIn struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Address   *models.Address `json:"address"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in registerIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Email == "" || len(in.Password) < 6 {
		h.writeError(w, http.StatusBadRequest, "email and a password of at least 6 characters are required")
		return
	}

	user, err := h.svc.Register(r.Context(), in.Email, in.Password, in.FirstName, in.LastName, in.Address)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"message": "registered", "id": user.ID})
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(in.Email, in.Password)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

// Me returns the authenticated user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

type coachIn struct {
	Message string `json:"message"`
}

// CoachChat forwards a free-form question to the AI coach
func (h *Handler) CoachChat(w http.ResponseWriter, r *http.Request) {
	var in coachIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Message == "" {
		h.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.coach.Reply(r.Context(), in.Message)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// KeyRate returns the savings reference rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.GetKeyRate()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, map[string]string{"detail": detail})
}
