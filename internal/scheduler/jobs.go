package scheduler

import (
	"context"
	"fmt"

	"github.com/boltauto/garage_microservice/internal/core/domain"
)

type ChallengeResetter interface {
	ResetAll(ctx context.Context, frequency domain.Frequency) (int64, error)
}

type ReminderGenerator interface {
	GenerateMaintenanceReminders(ctx context.Context) (*domain.ReminderSummary, error)
}

// ChallengeResetJob clears every user's progress for one challenge frequency.
type ChallengeResetJob struct {
	challenges ChallengeResetter
	frequency  domain.Frequency
}

func NewDailyChallengeResetJob(challenges ChallengeResetter) *ChallengeResetJob {
	return &ChallengeResetJob{challenges: challenges, frequency: domain.FrequencyDaily}
}

func NewWeeklyChallengeResetJob(challenges ChallengeResetter) *ChallengeResetJob {
	return &ChallengeResetJob{challenges: challenges, frequency: domain.FrequencyWeekly}
}

func (j *ChallengeResetJob) Name() string {
	return fmt.Sprintf("%s-challenge-reset", j.frequency)
}

func (j *ChallengeResetJob) Schedule() Schedule {
	if j.frequency == domain.FrequencyWeekly {
		return Weekly
	}
	return Daily
}

func (j *ChallengeResetJob) Execute(ctx context.Context) error {
	_, err := j.challenges.ResetAll(ctx, j.frequency)
	return err
}

type MaintenanceReminderJob struct {
	reminders ReminderGenerator
}

func NewMaintenanceReminderJob(reminders ReminderGenerator) *MaintenanceReminderJob {
	return &MaintenanceReminderJob{reminders: reminders}
}

func (j *MaintenanceReminderJob) Name() string { return "maintenance-reminders" }

func (j *MaintenanceReminderJob) Schedule() Schedule { return DailyMorning }

func (j *MaintenanceReminderJob) Execute(ctx context.Context) error {
	_, err := j.reminders.GenerateMaintenanceReminders(ctx)
	return err
}
