package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func completeProfile(id uuid.UUID) *domain.Profile {
	return &domain.Profile{
		ID:        id,
		FullName:  "Sam Driver",
		Username:  "samd",
		AvatarURL: "https://cdn.example.com/a.png",
		Bio:       "Weekend wrencher",
		Location:  "Leeds",
		Level:     1,
	}
}

func newTestAchievementService() (*AchievementService, *MockAchievementRepository, *MockBadgeRepository, *MockMetrics) {
	achievementRepo := new(MockAchievementRepository)
	badgeRepo := new(MockBadgeRepository)
	metrics := new(MockMetrics)
	return NewAchievementService(achievementRepo, badgeRepo, nopLogger{}, metrics), achievementRepo, badgeRepo, metrics
}

func TestEvaluate_GrantsSatisfiedAchievementsOnce(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, achievementRepo, _, metrics := newTestAchievementService()

	state := &domain.AchievementState{Profile: completeProfile(userID), VehicleCount: 1}
	achievementRepo.On("GetAchievementState", mock.Anything, userID).Return(state, nil)
	achievementRepo.On("ListAwards", mock.Anything, userID).Return([]*domain.AchievementAward{
		{AchievementID: "profile", UserID: userID, AwardedAt: time.Now()},
	}, nil)
	achievementRepo.On("GrantAchievement", mock.Anything, userID, "vehicle").Return(
		&domain.AchievementAward{ID: uuid.New(), UserID: userID, AchievementID: "vehicle", XPAwarded: 100},
		&domain.XPGrant{PreviousXP: 100, NewXP: 200, PreviousLevel: 1, NewLevel: 1},
		true, nil,
	).Once()
	metrics.On("RecordAchievementAwarded", "vehicle").Once()

	awarded, err := svc.Evaluate(ctx, userID)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "vehicle", awarded[0].AchievementID)

	achievementRepo.AssertNotCalled(t, "GrantAchievement", mock.Anything, userID, "profile")
	achievementRepo.AssertNotCalled(t, "GrantAchievement", mock.Anything, userID, "diagnostic")
	metrics.AssertExpectations(t)
}

func TestEvaluate_LostRaceIsNotReported(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, achievementRepo, _, metrics := newTestAchievementService()

	achievementRepo.On("GetAchievementState", mock.Anything, userID).Return(&domain.AchievementState{VehicleCount: 2}, nil)
	achievementRepo.On("ListAwards", mock.Anything, userID).Return([]*domain.AchievementAward{}, nil)
	achievementRepo.On("GrantAchievement", mock.Anything, userID, "vehicle").Return(nil, nil, false, nil)

	awarded, err := svc.Evaluate(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, awarded)
	metrics.AssertNotCalled(t, "RecordAchievementAwarded", mock.Anything)
}

func TestEvaluate_StopsOnGrantFailure(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, achievementRepo, _, metrics := newTestAchievementService()

	state := &domain.AchievementState{Profile: completeProfile(userID), VehicleCount: 1, ClubMemberships: 1}
	achievementRepo.On("GetAchievementState", mock.Anything, userID).Return(state, nil)
	achievementRepo.On("ListAwards", mock.Anything, userID).Return([]*domain.AchievementAward{}, nil)
	achievementRepo.On("GrantAchievement", mock.Anything, userID, "profile").Return(
		&domain.AchievementAward{AchievementID: "profile"}, &domain.XPGrant{NewXP: 100}, true, nil,
	)
	achievementRepo.On("GrantAchievement", mock.Anything, userID, "vehicle").Return(nil, nil, false, errors.New("tx aborted"))
	metrics.On("RecordAchievementAwarded", "profile")

	awarded, err := svc.Evaluate(ctx, userID)
	assert.EqualError(t, err, "tx aborted")
	require.Len(t, awarded, 1)
	assert.Equal(t, "profile", awarded[0].AchievementID)
	achievementRepo.AssertNotCalled(t, "GrantAchievement", mock.Anything, userID, "club")
}

func TestEvaluate_Unauthenticated(t *testing.T) {
	svc, _, _, _ := newTestAchievementService()
	_, err := svc.Evaluate(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestGetProgress(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, achievementRepo, _, _ := newTestAchievementService()

	awardedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	achievementRepo.On("GetAchievementState", mock.Anything, userID).Return(&domain.AchievementState{
		Profile:      &domain.Profile{ID: userID},
		VehicleCount: 1,
	}, nil)
	achievementRepo.On("ListAwards", mock.Anything, userID).Return([]*domain.AchievementAward{
		{AchievementID: "listing", AwardedAt: awardedAt},
	}, nil)

	progress, err := svc.GetProgress(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 5, progress.Total)
	assert.Equal(t, 2, progress.Completed)
	assert.Equal(t, 100+175, progress.EarnedXP)
	assert.Equal(t, 650, progress.MaxXP)

	byID := map[string]domain.AchievementStatus{}
	for _, status := range progress.Achievements {
		byID[status.ID] = status
	}
	assert.False(t, byID["profile"].Completed)
	assert.True(t, byID["vehicle"].Completed)
	assert.False(t, byID["vehicle"].Awarded)
	assert.True(t, byID["listing"].Awarded)
	require.NotNil(t, byID["listing"].AwardedAt)
	assert.Equal(t, awardedAt, *byID["listing"].AwardedAt)
}

func TestAwardBadge_Idempotent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	badge := &domain.Badge{ID: uuid.New(), Name: "Garage Starter"}
	svc, _, badgeRepo, _ := newTestAchievementService()

	badgeRepo.On("GetBadgeByName", mock.Anything, "Garage Starter").Return(badge, nil)
	badgeRepo.On("AwardBadge", mock.Anything, userID, badge.ID, "").Return(true, nil).Once()
	badgeRepo.On("AwardBadge", mock.Anything, userID, badge.ID, "").Return(false, nil).Once()

	require.NoError(t, svc.AwardBadge(ctx, userID, "Garage Starter", ""))
	require.NoError(t, svc.AwardBadge(ctx, userID, "Garage Starter", ""))
	badgeRepo.AssertNumberOfCalls(t, "AwardBadge", 2)
}

func TestAwardBadge_ConflictIsNotAnError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	badge := &domain.Badge{ID: uuid.New(), Name: "Club Member"}
	svc, _, badgeRepo, _ := newTestAchievementService()

	badgeRepo.On("GetBadgeByName", mock.Anything, "Club Member").Return(badge, nil)
	badgeRepo.On("AwardBadge", mock.Anything, userID, badge.ID, "note").Return(false, domain.ErrConflict)

	assert.NoError(t, svc.AwardBadge(ctx, userID, "Club Member", "note"))
}

func TestAwardBadge_UnknownBadge(t *testing.T) {
	ctx := context.Background()
	svc, _, badgeRepo, _ := newTestAchievementService()
	badgeRepo.On("GetBadgeByName", mock.Anything, "Nope").Return(nil, domain.ErrBadgeNotFound)

	err := svc.AwardBadge(ctx, uuid.New(), "Nope", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	badgeRepo.AssertNotCalled(t, "AwardBadge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLevelCurve(t *testing.T) {
	assert.Equal(t, 100, domain.XPForLevel(1))
	assert.Equal(t, 282, domain.XPForLevel(2))
	assert.Equal(t, 519, domain.XPForLevel(3))

	assert.Equal(t, 1, domain.LevelForXP(0))
	assert.Equal(t, 1, domain.LevelForXP(281))
	assert.Equal(t, 2, domain.LevelForXP(282))
	assert.Equal(t, 3, domain.LevelForXP(650))
}
