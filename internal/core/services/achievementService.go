package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"

	"github.com/google/uuid"
)

type AchievementService struct {
	achievementRepo ports.AchievementRepository
	badgeRepo       ports.BadgeRepository
	logger          ports.LoggerPort
	metrics         ports.MetricsPort
	checklist       []domain.Achievement
}

func NewAchievementService(
	achievementRepo ports.AchievementRepository,
	badgeRepo ports.BadgeRepository,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		badgeRepo:       badgeRepo,
		logger:          logger,
		metrics:         metrics,
		checklist:       domain.StarterAchievements,
	}
}

// Evaluate checks the starter checklist and grants every satisfied achievement
// the user has not been awarded yet. Each grant is atomic; a failed grant stops
// evaluation and is returned along with the awards made before it.
func (s *AchievementService) Evaluate(ctx context.Context, userID uuid.UUID) ([]*domain.AchievementAward, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	state, awarded, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var granted []*domain.AchievementAward
	for _, achievement := range s.checklist {
		if _, done := awarded[achievement.ID]; done {
			continue
		}
		if !achievement.Condition(*state) {
			continue
		}

		award, xp, created, err := s.achievementRepo.GrantAchievement(ctx, userID, achievement)
		if err != nil {
			s.logger.Error("Failed to grant achievement", map[string]interface{}{
				"error":          err.Error(),
				"user_id":        userID.String(),
				"achievement_id": achievement.ID,
			})
			return granted, err
		}
		if !created {
			continue
		}

		s.metrics.RecordAchievementAwarded(achievement.ID)
		fields := map[string]interface{}{
			"user_id":        userID.String(),
			"achievement_id": achievement.ID,
			"badge":          achievement.BadgeName,
			"xp":             achievement.XP,
		}
		if xp != nil {
			fields["new_xp"] = xp.NewXP
			fields["level_up"] = xp.LevelUp
		}
		s.logger.Info("Achievement granted", fields)

		granted = append(granted, award)
	}

	return granted, nil
}

func (s *AchievementService) GetProgress(ctx context.Context, userID uuid.UUID) (*domain.AchievementProgress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	state, awarded, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := &domain.AchievementProgress{Total: len(s.checklist)}
	for _, achievement := range s.checklist {
		status := domain.AchievementStatus{
			Achievement: achievement,
			Completed:   achievement.Condition(*state),
		}
		if award, ok := awarded[achievement.ID]; ok {
			status.Awarded = true
			awardedAt := award.AwardedAt
			status.AwardedAt = &awardedAt
			status.Completed = true
		}
		if status.Completed {
			progress.Completed++
			progress.EarnedXP += achievement.XP
		}
		progress.MaxXP += achievement.XP
		progress.Achievements = append(progress.Achievements, status)
	}

	return progress, nil
}

// AwardBadge grants a named badge. Granting a badge the user already holds is
// not an error.
func (s *AchievementService) AwardBadge(ctx context.Context, userID uuid.UUID, badgeName, note string) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}

	badge, err := s.badgeRepo.GetBadgeByName(ctx, badgeName)
	if err != nil {
		s.logger.Warn("Badge not found", map[string]interface{}{
			"error": err.Error(),
			"badge": badgeName,
		})
		return err
	}

	created, err := s.badgeRepo.AwardBadge(ctx, userID, badge.ID, note)
	if errors.Is(err, domain.ErrConflict) {
		created, err = false, nil
	}
	if err != nil {
		s.logger.Error("Failed to award badge", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID.String(),
			"badge":   badgeName,
		})
		return err
	}

	if !created {
		s.logger.Debug("Badge already awarded", map[string]interface{}{
			"user_id": userID.String(),
			"badge":   badgeName,
		})
		return nil
	}

	s.logger.Info("Badge awarded", map[string]interface{}{
		"user_id": userID.String(),
		"badge":   badgeName,
	})
	return nil
}

func (s *AchievementService) GetUserBadges(ctx context.Context, userID uuid.UUID) ([]*domain.UserBadge, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.badgeRepo.GetUserBadges(ctx, userID)
}

func (s *AchievementService) ListBadges(ctx context.Context) ([]*domain.Badge, error) {
	return s.badgeRepo.ListBadges(ctx)
}

func (s *AchievementService) load(ctx context.Context, userID uuid.UUID) (*domain.AchievementState, map[string]*domain.AchievementAward, error) {
	state, err := s.achievementRepo.GetAchievementState(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load achievement state", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID.String(),
		})
		return nil, nil, fmt.Errorf("load achievement state: %w", err)
	}

	awards, err := s.achievementRepo.ListAwards(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load achievement awards", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID.String(),
		})
		return nil, nil, fmt.Errorf("load achievement awards: %w", err)
	}

	awarded := make(map[string]*domain.AchievementAward, len(awards))
	for _, award := range awards {
		awarded[award.AchievementID] = award
	}
	return state, awarded, nil
}
