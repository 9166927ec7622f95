package models

import "time"

// User represents a registered user
type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Not serialized
	FirstName        string    `json:"first_name,omitempty"`
	LastName         string    `json:"last_name,omitempty"`
	NessieCustomerID string    `json:"nessie_customer_id,omitempty"`
	PrimaryAccountID string    `json:"primary_account_id,omitempty"`
	MonthlyIncomeSim float64   `json:"monthly_income_sim"`
	CreatedAt        time.Time `json:"created_at"`
}

// Address is the postal address sent to the banking sandbox on customer
// creation. Fields mirror the Nessie API.
type Address struct {
	StreetNumber string `json:"street_number"`
	StreetName   string `json:"street_name"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}
