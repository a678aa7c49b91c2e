package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/talkpal-app/conversation-service/internal/models"
	"github.com/talkpal-app/conversation-service/internal/repositories"
	"github.com/talkpal-app/conversation-service/internal/validator"
)

// DefaultLeaderboardLimit caps leaderboard responses.
const DefaultLeaderboardLimit = 50

type progressService struct {
	store     repositories.DocumentStore
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewProgressService(store repositories.DocumentStore, logger *slog.Logger, v *validator.Validator) ProgressService {
	return &progressService{
		store:     store,
		logger:    logger,
		validator: v,
		now:       time.Now,
	}
}

func (s *progressService) GetOrCreate(ctx context.Context, userID string) (*models.UserRecord, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	if record := doc.Get(userID); record != nil {
		return record, nil
	}

	record := models.NewUserRecord(userID, s.now())
	doc.Put(userID, record)
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to persist new user record: %w", err)
	}
	s.logger.Info("created default user record", "user_id", userID)
	return record, nil
}

// ApplyUpdate merges the provided fields into the user's record and
// returns the json names of the fields that changed. last_active is
// refreshed on every call.
func (s *progressService) ApplyUpdate(ctx context.Context, userID string, update *ProgressUpdateRequest) ([]string, error) {
	if err := s.validator.Validate(update); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	record := doc.Get(userID)
	if record == nil {
		record = models.NewUserRecord(userID, s.now())
		doc.Put(userID, record)
	}

	var updated []string
	if update.TotalConversations != nil {
		record.TotalConversations = *update.TotalConversations
		updated = append(updated, "total_conversations")
	}
	if update.TotalTimeMinutes != nil {
		record.TotalTimeMinutes = *update.TotalTimeMinutes
		updated = append(updated, "total_time_minutes")
	}
	if update.DisplayName != "" {
		record.DisplayName = update.DisplayName
		updated = append(updated, "display_name")
	}
	if update.CompletedScenario != "" && !record.HasCompletedScenario(update.CompletedScenario) {
		record.CompletedScenarios = append(record.CompletedScenarios, update.CompletedScenario)
		updated = append(updated, "completed_scenarios")
	}
	if update.AddedXP != nil && *update.AddedXP > 0 {
		record.WeeklyXP += *update.AddedXP
		updated = append(updated, "weekly_xp")
	}
	record.LastActive = s.now()
	updated = append(updated, "last_active")

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to persist progress update: %w", err)
	}
	return updated, nil
}

func (s *progressService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(doc.Users))
	for _, userID := range doc.UserIDs() {
		record := doc.Get(userID)
		entries = append(entries, LeaderboardEntry{
			UserID:      userID,
			DisplayName: record.DisplayName,
			WeeklyXP:    record.WeeklyXP,
			AvatarURL:   record.AvatarURL,
		})
	}

	// Stable sort keeps insertion order on XP ties.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WeeklyXP > entries[j].WeeklyXP
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
