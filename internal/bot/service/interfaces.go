package service

import (
	"context"
	"time"

	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
	"github.com/central-university-dev/go-xmas-reminder/internal/scheduler"
)

type ChatSettingsRepository interface {
	Get(ctx context.Context, chatID int64) (*models.ChatSettings, error)

	Save(ctx context.Context, settings *models.ChatSettings) error

	FindAll(ctx context.Context) ([]*models.ChatSettings, error)

	SetRemindersEnabled(ctx context.Context, chatID int64, enabled bool) error

	SetLastNotifiedVersion(ctx context.Context, chatID int64, version string) error
}

type ChatStateRepository interface {
	GetState(ctx context.Context, chatID int64) (models.ConversationState, error)

	SetState(ctx context.Context, chatID int64, state models.ConversationState) error
}

type JobScheduler interface {
	ScheduleDaily(key string, hour, minute int, payload scheduler.DailyPayload) error

	ReplaceDaily(key string, hour, minute int, payload scheduler.DailyPayload) error

	Cancel(key string) bool

	Exists(key string) bool

	ScheduleOnce(key string, delay time.Duration, payload scheduler.OncePayload) error
}

type TxManager interface {
	WithTransaction(ctx context.Context, txFunc func(ctx context.Context) error) error
}
