package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"

	"github.com/google/uuid"
)

type ChallengeService struct {
	challengeRepo ports.ChallengeRepository
	logger        ports.LoggerPort
}

func NewChallengeService(
	challengeRepo ports.ChallengeRepository,
	logger ports.LoggerPort,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		logger:        logger,
	}
}

func (s *ChallengeService) ListChallenges(ctx context.Context, filter domain.ChallengeFilter) ([]*domain.Challenge, error) {
	switch filter {
	case domain.ChallengeFilterAll, domain.ChallengeFilterActive, domain.ChallengeFilterDaily, domain.ChallengeFilterWeekly:
	default:
		return nil, fmt.Errorf("%w: unknown challenge filter %q", domain.ErrValidation, filter)
	}

	challenges, err := s.challengeRepo.ListChallenges(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list challenges", map[string]interface{}{
			"error":  err.Error(),
			"filter": string(filter),
		})
		return nil, err
	}
	return challenges, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID string) (*domain.Challenge, error) {
	challengeUUID, err := parseChallengeID(challengeID)
	if err != nil {
		return nil, err
	}
	return s.challengeRepo.GetChallengeByID(ctx, challengeUUID)
}

// SetProgress stores an absolute progress value, creating the row on first use.
func (s *ChallengeService) SetProgress(ctx context.Context, userID uuid.UUID, challengeID string, progress int) (*domain.UserChallengeProgress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if progress < 0 {
		return nil, fmt.Errorf("%w: progress must not be negative", domain.ErrValidation)
	}

	challengeUUID, err := parseChallengeID(challengeID)
	if err != nil {
		return nil, err
	}

	row, err := s.challengeRepo.UpsertProgress(ctx, userID, challengeUUID, progress, false)
	if err != nil {
		s.logger.Error("Failed to set challenge progress", map[string]interface{}{
			"error":        err.Error(),
			"user_id":      userID.String(),
			"challenge_id": challengeID,
		})
		return nil, err
	}

	s.logger.Info("Challenge progress set", map[string]interface{}{
		"user_id":      userID.String(),
		"challenge_id": challengeID,
		"progress":     row.CurrentProgress,
		"completed":    row.Completed,
	})

	return row, nil
}

// IncrementProgress adds delta (1 when delta is 0) to the progress of the named
// challenge, creating the row on first use.
func (s *ChallengeService) IncrementProgress(ctx context.Context, userID uuid.UUID, challengeName string, delta int) (*domain.UserChallengeProgress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if delta == 0 {
		delta = 1
	}
	if delta < 0 {
		return nil, fmt.Errorf("%w: increment must be positive", domain.ErrValidation)
	}

	challenge, err := s.challengeRepo.GetChallengeByName(ctx, strings.TrimSpace(challengeName))
	if err != nil {
		s.logger.Warn("Challenge lookup by name failed", map[string]interface{}{
			"error": err.Error(),
			"name":  challengeName,
		})
		return nil, err
	}

	row, err := s.challengeRepo.UpsertProgress(ctx, userID, challenge.ID, delta, true)
	if err != nil {
		s.logger.Error("Failed to increment challenge progress", map[string]interface{}{
			"error":        err.Error(),
			"user_id":      userID.String(),
			"challenge_id": challenge.ID.String(),
		})
		return nil, err
	}

	s.logger.Info("Challenge progress incremented", map[string]interface{}{
		"user_id":      userID.String(),
		"challenge_id": challenge.ID.String(),
		"delta":        delta,
		"progress":     row.CurrentProgress,
	})

	return row, nil
}

func (s *ChallengeService) StartChallenge(ctx context.Context, userID uuid.UUID, challengeID string) (*domain.UserChallengeProgress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	challengeUUID, err := parseChallengeID(challengeID)
	if err != nil {
		return nil, err
	}

	row, err := s.challengeRepo.StartProgress(ctx, userID, challengeUUID)
	if err != nil {
		s.logger.Error("Failed to start challenge", map[string]interface{}{
			"error":        err.Error(),
			"user_id":      userID.String(),
			"challenge_id": challengeID,
		})
		return nil, err
	}
	return row, nil
}

func (s *ChallengeService) GetUserChallengeProgress(ctx context.Context, userID uuid.UUID, challengeID string) (*domain.UserChallengeProgress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	challengeUUID, err := parseChallengeID(challengeID)
	if err != nil {
		return nil, err
	}
	return s.challengeRepo.GetProgress(ctx, userID, challengeUUID)
}

func (s *ChallengeService) GetUserChallenges(ctx context.Context, userID uuid.UUID, includeCompleted bool, req domain.PageRequest) (domain.Page[*domain.UserChallengeProgress], error) {
	if userID == uuid.Nil {
		return domain.Page[*domain.UserChallengeProgress]{}, domain.ErrUnauthenticated
	}
	req = req.Normalize()

	rows, total, err := s.challengeRepo.ListProgress(ctx, userID, includeCompleted, req)
	if err != nil {
		s.logger.Error("Failed to list challenge progress", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID.String(),
		})
		return domain.Page[*domain.UserChallengeProgress]{}, err
	}

	return domain.NewPage(rows, total, req), nil
}

// ResetProgress hard-deletes one user's progress on daily or weekly challenges.
func (s *ChallengeService) ResetProgress(ctx context.Context, userID uuid.UUID, frequency domain.Frequency) (int64, error) {
	if userID == uuid.Nil {
		return 0, domain.ErrUnauthenticated
	}
	return s.reset(ctx, &userID, frequency)
}

// ResetAll is the scheduled, every-user variant of ResetProgress.
func (s *ChallengeService) ResetAll(ctx context.Context, frequency domain.Frequency) (int64, error) {
	return s.reset(ctx, nil, frequency)
}

func (s *ChallengeService) reset(ctx context.Context, userID *uuid.UUID, frequency domain.Frequency) (int64, error) {
	if !frequency.Resettable() {
		return 0, fmt.Errorf("%w: only daily or weekly challenges can be reset", domain.ErrValidation)
	}

	fields := map[string]interface{}{"frequency": string(frequency)}
	if userID != nil {
		fields["user_id"] = userID.String()
	}

	deleted, err := s.challengeRepo.DeleteProgressByFrequency(ctx, userID, frequency)
	if err != nil {
		fields["error"] = err.Error()
		s.logger.Error("Failed to reset challenge progress", fields)
		return 0, err
	}

	fields["deleted"] = deleted
	s.logger.Info("Challenge progress reset", fields)
	return deleted, nil
}

func parseChallengeID(challengeID string) (uuid.UUID, error) {
	id, err := uuid.Parse(challengeID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid challenge ID", domain.ErrValidation)
	}
	return id, nil
}
