package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID                uuid.UUID `json:"id"`
	FullName          string    `json:"full_name"`
	Username          string    `json:"username"`
	AvatarURL         string    `json:"avatar_url"`
	Bio               string    `json:"bio"`
	Location          string    `json:"location"`
	XP                int       `json:"xp"`
	Level             int       `json:"level"`
	IsAdmin           bool      `json:"is_admin"`
	RepairTipsEnabled bool      `json:"ai_repair_tips_enabled"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsComplete requires all five public profile fields to be non-blank.
func (p *Profile) IsComplete() bool {
	for _, field := range []string{p.FullName, p.Username, p.AvatarURL, p.Bio, p.Location} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// XPForLevel is the total XP needed to reach a level.
func XPForLevel(level int) int {
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// LevelForXP returns the highest level whose threshold is covered by xp, minimum 1.
func LevelForXP(xp int) int {
	level := 1
	for XPForLevel(level+1) <= xp {
		level++
	}
	return level
}

type Badge struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IconURL     string    `json:"icon_url,omitempty"`
	Rarity      string    `json:"rarity,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserBadge struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	BadgeID   uuid.UUID `json:"badge_id"`
	Note      string    `json:"note,omitempty"`
	AwardedAt time.Time `json:"awarded_at"`
	Badge     *Badge    `json:"badge,omitempty"`
}

// AchievementAward is written once per (user, achievement).
type AchievementAward struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	AchievementID string     `json:"achievement_id"`
	XPAwarded     int        `json:"xp_awarded"`
	BadgeID       *uuid.UUID `json:"badge_awarded,omitempty"`
	AwardedAt     time.Time  `json:"awarded_at"`
}

// AchievementState is the snapshot the starter checklist is evaluated against.
type AchievementState struct {
	Profile            *Profile
	VehicleCount       int
	CompletedDiagnoses int
	ClubMemberships    int
	PartListings       int
}

type Achievement struct {
	ID          string                      `json:"id"`
	Title       string                      `json:"title"`
	Description string                      `json:"description"`
	BadgeName   string                      `json:"badge_name"`
	XP          int                         `json:"xp"`
	Condition   func(AchievementState) bool `json:"-"`
}

var StarterAchievements = []Achievement{
	{
		ID:          "profile",
		Title:       "Complete Your Profile",
		Description: "Fill out all profile fields",
		BadgeName:   "Profile Complete",
		XP:          100,
		Condition: func(s AchievementState) bool {
			return s.Profile != nil && s.Profile.IsComplete()
		},
	},
	{
		ID:          "vehicle",
		Title:       "Add Your First Vehicle",
		Description: "Put a vehicle in your garage",
		BadgeName:   "Garage Starter",
		XP:          100,
		Condition:   func(s AchievementState) bool { return s.VehicleCount > 0 },
	},
	{
		ID:          "diagnostic",
		Title:       "Run First Diagnostic",
		Description: "Use the AI assistant to diagnose a car issue",
		BadgeName:   "First Diagnosis",
		XP:          150,
		Condition:   func(s AchievementState) bool { return s.CompletedDiagnoses > 0 },
	},
	{
		ID:          "club",
		Title:       "Join a Club",
		Description: "Connect with other car enthusiasts",
		BadgeName:   "Club Member",
		XP:          125,
		Condition:   func(s AchievementState) bool { return s.ClubMemberships > 0 },
	},
	{
		ID:          "listing",
		Title:       "List a Part",
		Description: "Sell your first part in the marketplace",
		BadgeName:   "First Listing",
		XP:          175,
		Condition:   func(s AchievementState) bool { return s.PartListings > 0 },
	},
}

type AchievementStatus struct {
	Achievement
	Completed bool       `json:"completed"`
	Awarded   bool       `json:"awarded"`
	AwardedAt *time.Time `json:"awarded_at,omitempty"`
}

type AchievementProgress struct {
	Achievements []AchievementStatus `json:"achievements"`
	Completed    int                 `json:"completed"`
	Total        int                 `json:"total"`
	EarnedXP     int                 `json:"earned_xp"`
	MaxXP        int                 `json:"max_xp"`
}

// XPGrant is the outcome of adding XP to a profile.
type XPGrant struct {
	PreviousXP    int  `json:"previous_xp"`
	NewXP         int  `json:"new_xp"`
	PreviousLevel int  `json:"previous_level"`
	NewLevel      int  `json:"new_level"`
	LevelUp       bool `json:"level_up_occurred"`
}
