package domain

import (
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyNone   Frequency = ""
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Resettable reports whether progress for this frequency is wiped periodically.
func (f Frequency) Resettable() bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

type Challenge struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Target      int        `json:"target"`
	Frequency   Frequency  `json:"frequency,omitempty"`
	XPReward    int        `json:"xp_reward"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ActiveAt reports whether now falls inside the optional start/end window.
func (c *Challenge) ActiveAt(now time.Time) bool {
	if c.StartDate != nil && !c.StartDate.Before(now) {
		return false
	}
	if c.EndDate != nil && !c.EndDate.After(now) {
		return false
	}
	return true
}

// UserChallengeProgress is the single progress row for a (user, challenge) pair.
type UserChallengeProgress struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	ChallengeID     uuid.UUID  `json:"challenge_id"`
	CurrentProgress int        `json:"current_progress"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	LastUpdated     time.Time  `json:"last_updated"`
	Challenge       *Challenge `json:"challenge,omitempty"`
}

type ChallengeFilter string

const (
	ChallengeFilterAll    ChallengeFilter = ""
	ChallengeFilterActive ChallengeFilter = "active"
	ChallengeFilterDaily  ChallengeFilter = "daily"
	ChallengeFilterWeekly ChallengeFilter = "weekly"
)
