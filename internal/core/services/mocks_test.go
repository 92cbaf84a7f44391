package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	args := m.Called(ctx, vehicle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetVehicleByID(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetVehiclesByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	args := m.Called(ctx, vehicle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) DeleteVehicle(ctx context.Context, vehicleID uuid.UUID) error {
	args := m.Called(ctx, vehicleID)
	return args.Error(0)
}

type MockServiceRecordRepository struct {
	mock.Mock
}

func (m *MockServiceRecordRepository) CreateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRecord), args.Error(1)
}

func (m *MockServiceRecordRepository) GetServiceRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.ServiceRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRecord), args.Error(1)
}

func (m *MockServiceRecordRepository) GetServiceRecordsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.ServiceRecord, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ServiceRecord), args.Error(1)
}

func (m *MockServiceRecordRepository) UpdateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRecord), args.Error(1)
}

func (m *MockServiceRecordRepository) DeleteServiceRecord(ctx context.Context, recordID uuid.UUID) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(key string, value []byte, ttl time.Duration) error {
	args := m.Called(key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordMetrics(c *gin.Context, start time.Time) {}

func (m *MockMetrics) RecordAchievementAwarded(achievementID string) {
	m.Called(achievementID)
}

func (m *MockMetrics) RecordRemindersCreated(count int) {
	m.Called(count)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetProfileByID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListReminderRecipients(ctx context.Context) ([]*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) GetAchievementState(ctx context.Context, userID uuid.UUID) (*domain.AchievementState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AchievementState), args.Error(1)
}

func (m *MockAchievementRepository) ListAwards(ctx context.Context, userID uuid.UUID) ([]*domain.AchievementAward, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AchievementAward), args.Error(1)
}

func (m *MockAchievementRepository) GrantAchievement(ctx context.Context, userID uuid.UUID, achievement domain.Achievement) (*domain.AchievementAward, *domain.XPGrant, bool, error) {
	args := m.Called(ctx, userID, achievement.ID)
	var award *domain.AchievementAward
	if a := args.Get(0); a != nil {
		award = a.(*domain.AchievementAward)
	}
	var grant *domain.XPGrant
	if g := args.Get(1); g != nil {
		grant = g.(*domain.XPGrant)
	}
	return award, grant, args.Bool(2), args.Error(3)
}

type MockBadgeRepository struct {
	mock.Mock
}

func (m *MockBadgeRepository) ListBadges(ctx context.Context) ([]*domain.Badge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Badge), args.Error(1)
}

func (m *MockBadgeRepository) GetBadgeByName(ctx context.Context, name string) (*domain.Badge, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Badge), args.Error(1)
}

func (m *MockBadgeRepository) GetUserBadges(ctx context.Context, userID uuid.UUID) ([]*domain.UserBadge, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserBadge), args.Error(1)
}

func (m *MockBadgeRepository) AwardBadge(ctx context.Context, userID, badgeID uuid.UUID, note string) (bool, error) {
	args := m.Called(ctx, userID, badgeID, note)
	return args.Bool(0), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateNotification(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	args := m.Called(ctx, notification)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetUserNotifications(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID, limit, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) HasUnreadReminder(ctx context.Context, userID, vehicleID uuid.UUID, serviceType string) (bool, error) {
	args := m.Called(ctx, userID, vehicleID, serviceType)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// memChallengeRepository keeps progress rows in memory with the same
// one-row-per-(user, challenge) upsert semantics as the database.
type memChallengeRepository struct {
	mu         sync.Mutex
	challenges map[uuid.UUID]*domain.Challenge
	progress   map[[2]uuid.UUID]*domain.UserChallengeProgress
}

func newMemChallengeRepository(challenges ...*domain.Challenge) *memChallengeRepository {
	r := &memChallengeRepository{
		challenges: make(map[uuid.UUID]*domain.Challenge),
		progress:   make(map[[2]uuid.UUID]*domain.UserChallengeProgress),
	}
	for _, c := range challenges {
		r.challenges[c.ID] = c
	}
	return r
}

func (r *memChallengeRepository) ListChallenges(ctx context.Context, filter domain.ChallengeFilter) ([]*domain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Challenge
	for _, c := range r.challenges {
		switch filter {
		case domain.ChallengeFilterActive:
			if !c.ActiveAt(time.Now()) {
				continue
			}
		case domain.ChallengeFilterDaily, domain.ChallengeFilterWeekly:
			if string(c.Frequency) != string(filter) {
				continue
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memChallengeRepository) GetChallengeByID(ctx context.Context, challengeID uuid.UUID) (*domain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[challengeID]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	return c, nil
}

func (r *memChallengeRepository) GetChallengeByName(ctx context.Context, name string) (*domain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.challenges {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, domain.ErrChallengeNotFound
}

func (r *memChallengeRepository) UpsertProgress(ctx context.Context, userID, challengeID uuid.UUID, value int, increment bool) (*domain.UserChallengeProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[challengeID]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	key := [2]uuid.UUID{userID, challengeID}
	row, ok := r.progress[key]
	if !ok {
		row = &domain.UserChallengeProgress{ID: uuid.New(), UserID: userID, ChallengeID: challengeID}
		r.progress[key] = row
	}
	if increment {
		row.CurrentProgress += value
	} else {
		row.CurrentProgress = value
	}
	if !row.Completed && row.CurrentProgress >= c.Target {
		now := time.Now()
		row.Completed = true
		row.CompletedAt = &now
	}
	row.LastUpdated = time.Now()
	copied := *row
	return &copied, nil
}

func (r *memChallengeRepository) StartProgress(ctx context.Context, userID, challengeID uuid.UUID) (*domain.UserChallengeProgress, error) {
	r.mu.Lock()
	if _, ok := r.challenges[challengeID]; !ok {
		r.mu.Unlock()
		return nil, domain.ErrChallengeNotFound
	}
	key := [2]uuid.UUID{userID, challengeID}
	if _, ok := r.progress[key]; !ok {
		r.progress[key] = &domain.UserChallengeProgress{ID: uuid.New(), UserID: userID, ChallengeID: challengeID, LastUpdated: time.Now()}
	}
	r.mu.Unlock()
	return r.GetProgress(ctx, userID, challengeID)
}

func (r *memChallengeRepository) GetProgress(ctx context.Context, userID, challengeID uuid.UUID) (*domain.UserChallengeProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.progress[[2]uuid.UUID{userID, challengeID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *row
	copied.Challenge = r.challenges[challengeID]
	return &copied, nil
}

func (r *memChallengeRepository) ListProgress(ctx context.Context, userID uuid.UUID, includeCompleted bool, page domain.PageRequest) ([]*domain.UserChallengeProgress, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []*domain.UserChallengeProgress
	for key, row := range r.progress {
		if key[0] != userID || (!includeCompleted && row.Completed) {
			continue
		}
		copied := *row
		copied.Challenge = r.challenges[key[1]]
		rows = append(rows, &copied)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Challenge.Name < rows[j].Challenge.Name })
	total := len(rows)
	start := min(page.Offset(), total)
	end := min(start+page.PerPage, total)
	return rows[start:end], total, nil
}

func (r *memChallengeRepository) DeleteProgressByFrequency(ctx context.Context, userID *uuid.UUID, frequency domain.Frequency) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for key := range r.progress {
		if userID != nil && key[0] != *userID {
			continue
		}
		if r.challenges[key[1]].Frequency != frequency {
			continue
		}
		delete(r.progress, key)
		deleted++
	}
	return deleted, nil
}

func (r *memChallengeRepository) rows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.progress)
}
