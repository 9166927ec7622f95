package models

import "time"

// Streak tracks daily check-ins for gamification. DayCount grows by one
// per calendar day with a check-in; it does not reset on gaps.
type Streak struct {
	UserID          int64     `json:"user_id"`
	DayCount        int       `json:"day_count"`
	LastCheckinDate time.Time `json:"last_checkin_date"`
}
