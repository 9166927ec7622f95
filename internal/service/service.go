package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/fincoach/fincoach/internal/advisor"
	"github.com/fincoach/fincoach/internal/banking"
	"github.com/fincoach/fincoach/internal/config"
	"github.com/fincoach/fincoach/internal/middleware"
	"github.com/fincoach/fincoach/internal/models"
	"github.com/fincoach/fincoach/internal/repository"
	"github.com/fincoach/fincoach/internal/trading"
)

const defaultMonthlyIncomeSim = 20000.0

// Store is the persistence surface the service depends on. Implemented
// by *repository.Repository; narrowed here so tests can fake it.
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)
	Append(entry *models.LedgerEntry) error
	SumByAccount(accountID string) (float64, error)
	RecentByAccount(accountID string, limit int) ([]models.LedgerEntry, error)
	ListSince(accountID string, since time.Time) ([]models.LedgerEntry, error)
	GetStreak(userID int64) (*models.Streak, error)
	UpsertStreak(st *models.Streak) error
	CreateGoal(goal *models.Goal) error
	ListGoals(userID int64) ([]models.Goal, error)
}

// Mailer sends account lifecycle emails
type Mailer interface {
	SendWelcome(to, firstName string) error
}

// Service handles business logic
type Service struct {
	store   Store
	bank    *banking.Client
	advisor *advisor.Advisor
	trader  *trading.Simulator
	mailer  Mailer
	log     *logrus.Logger
	config  *config.Config
}

// NewService initializes a new service
func NewService(store Store, bank *banking.Client, adv *advisor.Advisor, trader *trading.Simulator, mailer Mailer, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:   store,
		bank:    bank,
		advisor: adv,
		trader:  trader,
		mailer:  mailer,
		log:     log,
		config:  cfg,
	}
}

// Register creates a new user with hashed password, then provisions the
// banking side and sends the welcome mail best-effort: neither failure
// rolls back the registration.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string, address *models.Address) (*models.User, error) {
	if _, err := s.store.FindUserByEmail(email); err == nil {
		return nil, fmt.Errorf("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:            email,
		PasswordHash:     string(hashedPassword),
		FirstName:        firstName,
		LastName:         lastName,
		MonthlyIncomeSim: defaultMonthlyIncomeSim,
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	if _, _, err := s.bank.EnsureCustomerAndAccount(ctx, user, address); err != nil {
		s.log.Warnf("Failed to provision bank account for %s: %v", user.Email, err)
	}
	if s.mailer != nil {
		if err := s.mailer.SendWelcome(user.Email, user.FirstName); err != nil {
			s.log.Warnf("Welcome email for %s not sent: %v", user.Email, err)
		}
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.TokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// CurrentUser resolves the authenticated user from the request context
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	userIDStr, ok := middleware.UserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		return nil, fmt.Errorf("user ID not found in context")
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return s.store.FindUserByID(userID)
}

// accountFor returns the user's primary account, provisioning it on
// first use.
func (s *Service) accountFor(ctx context.Context) (*models.User, string, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, "", err
	}
	_, accID, err := s.bank.EnsureCustomerAndAccount(ctx, user, nil)
	if err != nil {
		return nil, "", err
	}
	return user, accID, nil
}
