package models

import "time"

// User level values. The service never promotes levels itself; the
// client reports the level it wants prompts tuned for.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// UserRecord is one user's progress entry inside the Document.
type UserRecord struct {
	UserID             string    `json:"user_id"`
	TotalConversations int       `json:"total_conversations"`
	TotalTimeMinutes   int       `json:"total_time_minutes"`
	WeeklyXP           int       `json:"weekly_xp"`
	CurrentLevel       string    `json:"current_level"`
	CompletedScenarios []string  `json:"completed_scenarios"`
	LastActive         time.Time `json:"last_active"`
	DisplayName        string    `json:"display_name"`
	AvatarURL          string    `json:"avatar_url,omitempty"`
}

// NewUserRecord builds the defaulted record created on first access.
func NewUserRecord(userID string, now time.Time) *UserRecord {
	return &UserRecord{
		UserID:             userID,
		TotalConversations: 0,
		TotalTimeMinutes:   0,
		WeeklyXP:           0,
		CurrentLevel:       LevelBeginner,
		CompletedScenarios: []string{},
		LastActive:         now,
		DisplayName:        "User " + shortID(userID),
	}
}

func shortID(userID string) string {
	if len(userID) <= 4 {
		return userID
	}
	return userID[len(userID)-4:]
}

// HasCompletedScenario reports whether scenarioID is already recorded.
func (u *UserRecord) HasCompletedScenario(scenarioID string) bool {
	for _, id := range u.CompletedScenarios {
		if id == scenarioID {
			return true
		}
	}
	return false
}
