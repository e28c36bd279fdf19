package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainmocks "github.com/central-university-dev/go-xmas-reminder/internal/bot/domain/mocks"
	"github.com/central-university-dev/go-xmas-reminder/internal/bot/service/mocks"
	domainerrors "github.com/central-university-dev/go-xmas-reminder/internal/domain/errors"
	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
	"github.com/central-university-dev/go-xmas-reminder/internal/scheduler"
	"github.com/central-university-dev/go-xmas-reminder/pkg"
)

const testChatID = int64(123456)

func testSettings() *models.ChatSettings {
	return &models.ChatSettings{
		ChatID:              testChatID,
		XmasDay:             24,
		ReminderHour:        20,
		ReminderMinute:      56,
		RemindersEnabled:    true,
		LastNotifiedVersion: CurrentVersion,
	}
}

func newTestReminderService(
	settingsRepo *mocks.ChatSettingsRepository,
	jobScheduler *mocks.JobScheduler,
	telegramClient *domainmocks.TelegramClientAPI,
) *ReminderService {
	logger := pkg.NewLogger(io.Discard)

	return NewReminderService(settingsRepo, jobScheduler, telegramClient, time.UTC, logger)
}

func TestReminderService_EnsureSettings_CreatesDefaults(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	ctx := context.Background()

	settingsRepo.On("Get", ctx, testChatID).Return(nil, &domainerrors.ErrChatNotFound{ChatID: testChatID})
	settingsRepo.On("Save", ctx, mock.AnythingOfType("*models.ChatSettings")).Return(nil)

	settings, err := svc.EnsureSettings(ctx, testChatID)

	require.NoError(t, err)
	assert.Equal(t, testChatID, settings.ChatID)
	assert.Equal(t, models.DefaultXmasDay, settings.XmasDay)
	assert.Equal(t, models.DefaultReminderHour, settings.ReminderHour)
	assert.Equal(t, models.DefaultReminderMinute, settings.ReminderMinute)
	assert.True(t, settings.RemindersEnabled)
	assert.Equal(t, CurrentVersion, settings.LastNotifiedVersion)
	settingsRepo.AssertExpectations(t)
}

func TestReminderService_OnSettingsChanged(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	ctx := context.Background()

	settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)
	jobScheduler.On("ReplaceDaily", "123456", 20, 56, scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24}).
		Return(nil)

	err := svc.OnSettingsChanged(ctx, testChatID)

	require.NoError(t, err)
	jobScheduler.AssertExpectations(t)
	settingsRepo.AssertNotCalled(t, "SetRemindersEnabled", mock.Anything, mock.Anything, mock.Anything)
}

func TestReminderService_OnSettingsChanged_EnablesDisabledChat(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	ctx := context.Background()

	disabled := testSettings()
	disabled.RemindersEnabled = false

	settingsRepo.On("Get", ctx, testChatID).Return(disabled, nil)
	jobScheduler.On("ReplaceDaily", "123456", 20, 56, scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24}).
		Return(nil)
	settingsRepo.On("SetRemindersEnabled", ctx, testChatID, true).Return(nil)

	err := svc.OnSettingsChanged(ctx, testChatID)

	require.NoError(t, err)
	settingsRepo.AssertExpectations(t)
	jobScheduler.AssertExpectations(t)
}

func TestReminderService_OnStop(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	ctx := context.Background()

	settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)
	jobScheduler.On("Cancel", "123456").Return(true)
	settingsRepo.On("SetRemindersEnabled", ctx, testChatID, false).Return(nil)

	removed, err := svc.OnStop(ctx, testChatID)

	require.NoError(t, err)
	assert.True(t, removed)
	jobScheduler.AssertExpectations(t)
	settingsRepo.AssertExpectations(t)
}

func TestReminderService_OnStop_NoActiveJob(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	ctx := context.Background()

	settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)
	jobScheduler.On("Cancel", "123456").Return(false)
	settingsRepo.On("SetRemindersEnabled", ctx, testChatID, false).Return(nil)

	removed, err := svc.OnStop(ctx, testChatID)

	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReminderService_OnStop_FirstCommandCreatesDefaults(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	ctx := context.Background()

	// /stop первой командой чата: записи ещё нет, она создаётся по умолчанию,
	// а отсутствие задачи означает «нечего удалять», а не ошибку.
	settingsRepo.On("Get", ctx, testChatID).Return(nil, &domainerrors.ErrChatNotFound{ChatID: testChatID})
	settingsRepo.On("Save", ctx, mock.AnythingOfType("*models.ChatSettings")).Return(nil)
	jobScheduler.On("Cancel", "123456").Return(false)
	settingsRepo.On("SetRemindersEnabled", ctx, testChatID, false).Return(nil)

	removed, err := svc.OnStop(ctx, testChatID)

	require.NoError(t, err)
	assert.False(t, removed)
	settingsRepo.AssertExpectations(t)
	jobScheduler.AssertExpectations(t)
}

func TestReminderService_OnRestart_AlreadyConfigured(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	ctx := context.Background()

	jobScheduler.On("Exists", "123456").Return(true)

	started, err := svc.OnRestart(ctx, testChatID)

	require.NoError(t, err)
	assert.False(t, started)
	jobScheduler.AssertNotCalled(t, "ReplaceDaily", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReminderService_OnRestart_InstallsJob(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	ctx := context.Background()

	jobScheduler.On("Exists", "123456").Return(false)
	settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)
	jobScheduler.On("ReplaceDaily", "123456", 20, 56, scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24}).
		Return(nil)

	started, err := svc.OnRestart(ctx, testChatID)

	require.NoError(t, err)
	assert.True(t, started)
	jobScheduler.AssertExpectations(t)
}

func TestReminderService_RestoreJobs_SkipsDisabled(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	ctx := context.Background()

	enabled := testSettings()

	disabled := testSettings()
	disabled.ChatID = 777
	disabled.RemindersEnabled = false

	other := testSettings()
	other.ChatID = 999
	other.XmasDay = 25
	other.ReminderHour = 8
	other.ReminderMinute = 0

	settingsRepo.On("FindAll", ctx).Return([]*models.ChatSettings{enabled, disabled, other}, nil)
	jobScheduler.On("ScheduleDaily", "123456", 20, 56, scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24}).
		Return(nil)
	jobScheduler.On("ScheduleDaily", "999", 8, 0, scheduler.DailyPayload{ChatID: 999, XmasDay: 25}).
		Return(nil)

	err := svc.RestoreJobs(ctx)

	require.NoError(t, err)
	jobScheduler.AssertExpectations(t)
	jobScheduler.AssertNotCalled(t, "ScheduleDaily", "777", mock.Anything, mock.Anything, mock.Anything)
}

func TestReminderService_HandleDailyFire_Variants(t *testing.T) {
	tests := []struct {
		name     string
		today    time.Time
		expected string
	}{
		{
			name:     "день Рождества",
			today:    time.Date(2025, time.December, 24, 20, 56, 0, 0, time.UTC),
			expected: "Счастливого Рождества",
		},
		{
			name:     "канун",
			today:    time.Date(2025, time.December, 23, 20, 56, 0, 0, time.UTC),
			expected: "Завтра Рождество",
		},
		{
			name:     "день после",
			today:    time.Date(2025, time.December, 25, 20, 56, 0, 0, time.UTC),
			expected: "всё ещё Рождество",
		},
		{
			name:     "печенье",
			today:    time.Date(2025, time.December, 28, 20, 56, 0, 0, time.UTC),
			expected: "печенье",
		},
		{
			name:     "обычный день в окне",
			today:    time.Date(2025, time.December, 1, 20, 56, 0, 0, time.UTC),
			expected: "осталось 23 дн.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settingsRepo := new(mocks.ChatSettingsRepository)
			jobScheduler := new(mocks.JobScheduler)
			telegramClient := new(domainmocks.TelegramClientAPI)
			svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

			svc.now = func() time.Time { return tt.today }

			telegramClient.On("SendMessage", mock.Anything, testChatID, mock.MatchedBy(func(text string) bool {
				return strings.Contains(text, tt.expected) && strings.Contains(text, "Хо-хо-хо!")
			})).Return(nil)

			svc.HandleDailyFire(scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24})

			telegramClient.AssertExpectations(t)
		})
	}
}

func TestReminderService_HandleDailyFire_Throttled(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	// 84 дня до Рождества: вне окна и не кратно 50.
	svc.now = func() time.Time { return time.Date(2025, time.October, 1, 20, 56, 0, 0, time.UTC) }

	svc.HandleDailyFire(scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24})

	telegramClient.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestReminderService_HandleDailyFire_SendErrorDoesNotPanic(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	svc.now = func() time.Time { return time.Date(2025, time.December, 24, 20, 56, 0, 0, time.UTC) }

	telegramClient.On("SendMessage", mock.Anything, testChatID, mock.Anything).
		Return(&domainerrors.ErrTelegramSend{ChatID: testChatID})

	svc.HandleDailyFire(scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24})

	telegramClient.AssertExpectations(t)
}

func TestReminderService_HandleOnceFire(t *testing.T) {
	settingsRepo := new(mocks.ChatSettingsRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	svc := newTestReminderService(settingsRepo, jobScheduler, telegramClient)

	telegramClient.On("SendMessage", mock.Anything, testChatID, "что нового").Return(nil)

	svc.HandleOnceFire(scheduler.OncePayload{ChatID: testChatID, Text: "что нового"})

	telegramClient.AssertExpectations(t)
}
