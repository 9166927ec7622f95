package models

import "time"

// Goal is a user savings goal
type Goal struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Name         string     `json:"name"`
	TargetAmount float64    `json:"target_amount"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Progress     float64    `json:"progress"`
	CreatedAt    time.Time  `json:"created_at"`
}
