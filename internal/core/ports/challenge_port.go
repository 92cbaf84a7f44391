package ports

import (
	"context"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
)

type ChallengeRepository interface {
	ListChallenges(ctx context.Context, filter domain.ChallengeFilter) ([]*domain.Challenge, error)
	GetChallengeByID(ctx context.Context, challengeID uuid.UUID) (*domain.Challenge, error)
	GetChallengeByName(ctx context.Context, name string) (*domain.Challenge, error)

	// UpsertProgress writes the single progress row for (user, challenge) in one
	// statement. With increment set, value is added to the stored progress;
	// otherwise it replaces it.
	UpsertProgress(ctx context.Context, userID, challengeID uuid.UUID, value int, increment bool) (*domain.UserChallengeProgress, error)
	// StartProgress inserts a zero-progress row unless one already exists.
	StartProgress(ctx context.Context, userID, challengeID uuid.UUID) (*domain.UserChallengeProgress, error)
	GetProgress(ctx context.Context, userID, challengeID uuid.UUID) (*domain.UserChallengeProgress, error)
	ListProgress(ctx context.Context, userID uuid.UUID, includeCompleted bool, page domain.PageRequest) ([]*domain.UserChallengeProgress, int, error)
	// DeleteProgressByFrequency removes progress rows for challenges with the given
	// frequency. A nil userID targets every user.
	DeleteProgressByFrequency(ctx context.Context, userID *uuid.UUID, frequency domain.Frequency) (int64, error)
}
