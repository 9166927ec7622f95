package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/config"
	"github.com/fincoach/fincoach/internal/models"
)

const initialBalance = 1000.0

// Store is the slice of persistence the banking client needs: demo mode
// records money movements locally instead of calling the sandbox.
type Store interface {
	Append(entry *models.LedgerEntry) error
	CreateBill(bill *models.ScheduledBill) error
	UpdateBankLink(userID int64, customerID, accountID string) error
}

// Client talks to the Nessie banking sandbox. Without an API key it runs
// in demo mode: IDs are generated locally and every money movement is
// written straight to the local ledger.
type Client struct {
	baseURL string
	apiKey  string
	store   Store
	client  *http.Client
	log     *logrus.Logger
}

// NewClient initializes a new banking client
func NewClient(cfg *config.Config, store Store, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.NessieBaseURL, "/"),
		apiKey:  cfg.NessieAPIKey,
		store:   store,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		log: log,
	}
}

// Demo reports whether the client operates without a sandbox API key
func (c *Client) Demo() bool {
	return c.apiKey == ""
}

func (c *Client) url(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%skey=%s", c.baseURL, path, sep, c.apiKey)
}

func demoID(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return prefix + "-" + suffix
}

// EnsureCustomerAndAccount idempotently provisions a banking customer and
// primary account for the user and persists both IDs.
func (c *Client) EnsureCustomerAndAccount(ctx context.Context, user *models.User, address *models.Address) (string, string, error) {
	if user.NessieCustomerID != "" && user.PrimaryAccountID != "" {
		return user.NessieCustomerID, user.PrimaryAccountID, nil
	}

	custID := user.NessieCustomerID
	if custID == "" {
		var err error
		custID, err = c.CreateCustomer(ctx, user.FirstName, user.LastName, address)
		if err != nil {
			return "", "", err
		}
		user.NessieCustomerID = custID
	}

	accID := user.PrimaryAccountID
	if accID == "" {
		var err error
		accID, err = c.CreateAccount(ctx, custID, "FinCoach", initialBalance)
		if err != nil {
			return "", "", err
		}
		user.PrimaryAccountID = accID
	}

	if err := c.store.UpdateBankLink(user.ID, custID, accID); err != nil {
		return "", "", err
	}
	return custID, accID, nil
}

// CreateCustomer registers a customer with the sandbox (or mints a local
// ID in demo mode)
func (c *Client) CreateCustomer(ctx context.Context, firstName, lastName string, address *models.Address) (string, error) {
	if c.Demo() {
		return demoID("LOCALCUST"), nil
	}
	if address == nil {
		address = &models.Address{}
	}
	body := map[string]any{
		"first_name": orDefault(firstName, "First"),
		"last_name":  orDefault(lastName, "User"),
		"address": map[string]string{
			"street_number": orDefault(address.StreetNumber, "123"),
			"street_name":   orDefault(address.StreetName, "Main St"),
			"city":          orDefault(address.City, "CDMX"),
			"state":         orDefault(address.State, "MX"),
			"zip":           orDefault(address.Zip, "01000"),
		},
	}
	return c.postForID(ctx, "/customers", body)
}

// CreateAccount opens a checking account for the customer. In demo mode
// the starting balance becomes the account's first ledger entry.
func (c *Client) CreateAccount(ctx context.Context, customerID, nickname string, balance float64) (string, error) {
	if c.Demo() {
		accID := demoID("LOCALACC")
		if balance != 0 {
			entry := &models.LedgerEntry{
				AccountID:   accID,
				Amount:      balance,
				Description: "Initial balance (demo)",
			}
			if err := c.store.Append(entry); err != nil {
				c.log.Warnf("Failed to record initial balance for %s: %v", accID, err)
			}
		}
		return accID, nil
	}
	body := map[string]any{
		"type":     "Checking",
		"nickname": nickname,
		"rewards":  0,
		"balance":  balance,
	}
	return c.postForID(ctx, fmt.Sprintf("/customers/%s/accounts", customerID), body)
}

// Deposit credits the account, e.g. a simulated paycheck
func (c *Client) Deposit(ctx context.Context, accountID string, amount float64, description string) (map[string]any, error) {
	if c.Demo() {
		entry := &models.LedgerEntry{
			AccountID:   accountID,
			Amount:      amount,
			Description: description,
		}
		if err := c.store.Append(entry); err != nil {
			return nil, err
		}
		return map[string]any{
			"status":           "ok",
			"mode":             "demo",
			"account_id":       accountID,
			"amount":           amount,
			"transaction_date": time.Now().UTC().Format("2006-01-02"),
		}, nil
	}
	body := map[string]any{
		"medium":           "balance",
		"transaction_date": time.Now().UTC().Format("2006-01-02"),
		"status":           "pending",
		"description":      description,
		"amount":           amount,
	}
	return c.postForBody(ctx, fmt.Sprintf("/accounts/%s/deposits", accountID), body)
}

// ScheduleBill registers a future bill payment. Demo mode stores it
// locally for the daily bill job; real mode delegates to the sandbox.
func (c *Client) ScheduleBill(ctx context.Context, accountID, payee string, amount float64, paymentDate time.Time) (*models.ScheduledBill, error) {
	bill := &models.ScheduledBill{
		AccountID:   accountID,
		Payee:       payee,
		Amount:      amount,
		PaymentDate: paymentDate,
		Status:      models.BillPending,
	}
	if c.Demo() {
		if err := c.store.CreateBill(bill); err != nil {
			return nil, err
		}
		return bill, nil
	}
	body := map[string]any{
		"status":         models.BillPending,
		"payee":          payee,
		"payment_date":   paymentDate.Format("2006-01-02"),
		"payment_amount": amount,
	}
	if _, err := c.postForBody(ctx, fmt.Sprintf("/accounts/%s/bills", accountID), body); err != nil {
		return nil, err
	}
	// Keep a local record too, so summaries see the obligation
	if err := c.store.CreateBill(bill); err != nil {
		c.log.Warnf("Failed to record scheduled bill locally: %v", err)
	}
	return bill, nil
}

// Transfer moves money between accounts: a debit on the sender and a
// credit on the receiver. Demo mode writes the ledger pair directly.
func (c *Client) Transfer(ctx context.Context, fromAccount, toAccount string, amount float64, description string) error {
	if c.Demo() {
		debit := &models.LedgerEntry{AccountID: fromAccount, Amount: -amount, Description: description}
		if err := c.store.Append(debit); err != nil {
			return err
		}
		credit := &models.LedgerEntry{AccountID: toAccount, Amount: amount, Description: description}
		return c.store.Append(credit)
	}
	body := map[string]any{
		"medium":           "balance",
		"payee_id":         toAccount,
		"amount":           amount,
		"transaction_date": time.Now().UTC().Format("2006-01-02"),
		"description":      description,
	}
	_, err := c.postForBody(ctx, fmt.Sprintf("/accounts/%s/transfers", fromAccount), body)
	return err
}

// postForID posts and extracts the created object's ID. The sandbox
// wraps new objects as {"objectCreated": {"_id": ...}}.
func (c *Client) postForID(ctx context.Context, path string, body map[string]any) (string, error) {
	data, err := c.postForBody(ctx, path, body)
	if err != nil {
		return "", err
	}
	if created, ok := data["objectCreated"].(map[string]any); ok {
		if id, ok := created["_id"].(string); ok {
			return id, nil
		}
	}
	if id, ok := data["_id"].(string); ok {
		return id, nil
	}
	return "", fmt.Errorf("no object id in response for %s", path)
}

func (c *Client) postForBody(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("banking request %s failed: %d %s", path, resp.StatusCode, string(respBody))
	}

	var data map[string]any
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return data, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
