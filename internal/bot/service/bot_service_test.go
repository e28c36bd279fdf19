package service

import (
	"context"
	"io"
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
	txsmocks "github.com/central-university-dev/go-xmas-reminder/pkg/txs/mocks"
)

type botServiceFixture struct {
	settingsRepo *mocks.ChatSettingsRepository
	stateRepo    *mocks.ChatStateRepository
	jobScheduler *mocks.JobScheduler
	txManager    *txsmocks.TxManager
	service      *BotService
}

func newBotServiceFixture() *botServiceFixture {
	settingsRepo := new(mocks.ChatSettingsRepository)
	stateRepo := new(mocks.ChatStateRepository)
	jobScheduler := new(mocks.JobScheduler)
	telegramClient := new(domainmocks.TelegramClientAPI)
	txManager := new(txsmocks.TxManager)
	logger := pkg.NewLogger(io.Discard)

	reminderService := NewReminderService(settingsRepo, jobScheduler, telegramClient, time.UTC, logger)
	botService := NewBotService(settingsRepo, stateRepo, reminderService, txManager, time.UTC, logger)

	return &botServiceFixture{
		settingsRepo: settingsRepo,
		stateRepo:    stateRepo,
		jobScheduler: jobScheduler,
		txManager:    txManager,
		service:      botService,
	}
}

func (f *botServiceFixture) expectTransaction(ctx context.Context) {
	f.txManager.On("WithTransaction", mock.Anything, mock.AnythingOfType("func(context.Context) error")).
		Return(nil).
		Run(func(args mock.Arguments) {
			txFunc := args.Get(1).(func(context.Context) error)
			_ = txFunc(ctx)
		})
}

func command(commandType models.CommandType) *models.Command {
	return &models.Command{
		Type:     commandType,
		ChatID:   testChatID,
		UserID:   654321,
		Text:     string(commandType),
		Username: "testuser",
	}
}

func TestBotService_ProcessCommand_Start(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)
	f.jobScheduler.On("ReplaceDaily", "123456", 20, 56, scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24}).
		Return(nil)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandStart))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Привет")
	assert.Contains(t, reply.Text, "/settings")
	f.jobScheduler.AssertExpectations(t)
}

func TestBotService_ProcessCommand_Stop(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)
	f.jobScheduler.On("Cancel", "123456").Return(true)
	f.settingsRepo.On("SetRemindersEnabled", ctx, testChatID, false).Return(nil)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandStop))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Напоминания выключены")
}

func TestBotService_ProcessCommand_Stop_NothingToRemove(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)
	f.jobScheduler.On("Cancel", "123456").Return(false)
	f.settingsRepo.On("SetRemindersEnabled", ctx, testChatID, false).Return(nil)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandStop))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "и так выключены")
}

func TestBotService_ProcessCommand_Stop_FirstContact(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.settingsRepo.On("Get", ctx, testChatID).Return(nil, &domainerrors.ErrChatNotFound{ChatID: testChatID})
	f.settingsRepo.On("Save", ctx, mock.AnythingOfType("*models.ChatSettings")).Return(nil)
	f.jobScheduler.On("Cancel", "123456").Return(false)
	f.settingsRepo.On("SetRemindersEnabled", ctx, testChatID, false).Return(nil)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandStop))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "и так выключены")
	f.settingsRepo.AssertExpectations(t)
}

func TestBotService_ProcessCommand_Restart_AlreadyConfigured(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.jobScheduler.On("Exists", "123456").Return(true)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandRestart))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "уже настроены")
	f.jobScheduler.AssertNotCalled(t, "ReplaceDaily", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBotService_ProcessCommand_Restart_Resumes(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.jobScheduler.On("Exists", "123456").Return(false)
	f.settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)
	f.jobScheduler.On("ReplaceDaily", "123456", 20, 56, scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24}).
		Return(nil)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandRestart))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "возобновлены")
}

func TestBotService_ProcessCommand_Settings(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)
	f.stateRepo.On("SetState", ctx, testChatID, models.StateChoosingSetting).Return(nil)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandSettings))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "24 декабря")
	assert.Contains(t, reply.Text, "20:56")
	require.NotNil(t, reply.Keyboard)
	assert.Len(t, reply.Keyboard.Rows, 3)
	f.stateRepo.AssertExpectations(t)
}

func TestBotService_ProcessCommand_Cancel(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.stateRepo.On("SetState", ctx, testChatID, models.StateIdle).Return(nil)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandCancel))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "отменена")
}

func TestBotService_ProcessCommand_HowLong(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.service.now = func() time.Time { return time.Date(2025, time.December, 24, 12, 0, 0, 0, time.UTC) }

	f.settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandHowLong))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Счастливого Рождества")
}

// /howlong отвечает и в дни, когда ежедневное напоминание подавляется.
func TestBotService_ProcessCommand_HowLong_OutsideWindow(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.service.now = func() time.Time { return time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC) }

	f.settingsRepo.On("Get", ctx, testChatID).Return(testSettings(), nil)

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandHowLong))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "осталось 84 дн.")
}

func TestBotService_ProcessCommand_Help(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandHelp))

	require.NoError(t, err)

	for _, name := range []string{"/start", "/stop", "/restart", "/settings", "/cancel", "/howlong", "/about"} {
		assert.Contains(t, reply.Text, name)
	}
}

func TestBotService_ProcessCommand_About(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandAbout))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, CurrentVersion)
}

func TestBotService_ProcessCommand_Unknown(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	reply, err := f.service.ProcessCommand(ctx, command(models.CommandUnknown))

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "/help")
}

func TestBotService_ProcessText_AppliesXmasDay(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	settings := testSettings()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateAwaitingXmasDay, nil)
	f.expectTransaction(ctx)
	f.settingsRepo.On("Get", mock.Anything, testChatID).Return(settings, nil)
	f.settingsRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *models.ChatSettings) bool {
		return s.XmasDay == 25
	})).Return(nil)
	f.stateRepo.On("SetState", mock.Anything, testChatID, models.StateIdle).Return(nil)
	f.jobScheduler.On("ReplaceDaily", "123456", 20, 56, scheduler.DailyPayload{ChatID: testChatID, XmasDay: 25}).
		Return(nil)

	reply, err := f.service.ProcessText(ctx, testChatID, "25")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "25 декабря")
	f.settingsRepo.AssertExpectations(t)
	f.jobScheduler.AssertExpectations(t)
}

func TestBotService_ProcessText_RejectsInvalidXmasDay(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateAwaitingXmasDay, nil)

	reply, err := f.service.ProcessText(ctx, testChatID, "30")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "24 или 25")
	require.NotNil(t, reply.Keyboard)
	f.txManager.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	f.stateRepo.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything, mock.Anything)
}

func TestBotService_ProcessText_AppliesReminderTime(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	settings := testSettings()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateAwaitingReminderTime, nil)
	f.expectTransaction(ctx)
	f.settingsRepo.On("Get", mock.Anything, testChatID).Return(settings, nil)
	f.settingsRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *models.ChatSettings) bool {
		return s.ReminderHour == 7 && s.ReminderMinute == 15
	})).Return(nil)
	f.stateRepo.On("SetState", mock.Anything, testChatID, models.StateIdle).Return(nil)
	f.jobScheduler.On("ReplaceDaily", "123456", 7, 15, scheduler.DailyPayload{ChatID: testChatID, XmasDay: 24}).
		Return(nil)

	reply, err := f.service.ProcessText(ctx, testChatID, "07:15")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "07:15")
	f.jobScheduler.AssertExpectations(t)
}

func TestBotService_ProcessText_RejectsInvalidTime(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateAwaitingReminderTime, nil)

	for _, input := range []string{"25:00", "12:60", "вечером", "12", "12:ab"} {
		reply, err := f.service.ProcessText(ctx, testChatID, input)

		require.NoError(t, err)
		assert.Contains(t, reply.Text, "ЧЧ:ММ")
	}

	f.txManager.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	f.stateRepo.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything, mock.Anything)
}

func TestBotService_ProcessText_Idle(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateIdle, nil)

	reply, err := f.service.ProcessText(ctx, testChatID, "привет")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "/help")
}

func TestBotService_ProcessCallback_ChooseXmasDay(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateChoosingSetting, nil)
	f.stateRepo.On("SetState", ctx, testChatID, models.StateAwaitingXmasDay).Return(nil)

	reply, err := f.service.ProcessCallback(ctx, testChatID, models.CallbackXmasDay)

	require.NoError(t, err)
	require.NotNil(t, reply.Keyboard)
	assert.Contains(t, reply.Text, "Рождеством")
	f.stateRepo.AssertExpectations(t)
}

func TestBotService_ProcessCallback_ChooseReminderTime(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateChoosingSetting, nil)
	f.stateRepo.On("SetState", ctx, testChatID, models.StateAwaitingReminderTime).Return(nil)

	reply, err := f.service.ProcessCallback(ctx, testChatID, models.CallbackReminderTime)

	require.NoError(t, err)
	require.NotNil(t, reply.Keyboard)
	assert.Contains(t, reply.Text, "ЧЧ:ММ")
}

func TestBotService_ProcessCallback_UnknownSetting(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateChoosingSetting, nil)
	f.stateRepo.On("SetState", ctx, testChatID, models.StateIdle).Return(nil)

	reply, err := f.service.ProcessCallback(ctx, testChatID, "громкость")

	require.Error(t, err)
	assert.ErrorIs(t, err, &domainerrors.ErrUnknownSetting{})
	assert.Nil(t, reply)
	f.stateRepo.AssertExpectations(t)
}

func TestBotService_ProcessCallback_AppliesDayValue(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	settings := testSettings()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateAwaitingXmasDay, nil)
	f.expectTransaction(ctx)
	f.settingsRepo.On("Get", mock.Anything, testChatID).Return(settings, nil)
	f.settingsRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.stateRepo.On("SetState", mock.Anything, testChatID, models.StateIdle).Return(nil)
	f.jobScheduler.On("ReplaceDaily", "123456", 20, 56, scheduler.DailyPayload{ChatID: testChatID, XmasDay: 25}).
		Return(nil)

	reply, err := f.service.ProcessCallback(ctx, testChatID, "day:25")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "25 декабря")
}

func TestBotService_ProcessCallback_Cancel(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.stateRepo.On("SetState", ctx, testChatID, models.StateIdle).Return(nil)

	reply, err := f.service.ProcessCallback(ctx, testChatID, models.CallbackCancel)

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "отменена")
	f.stateRepo.AssertNotCalled(t, "GetState", mock.Anything, mock.Anything)
}

// Кнопка от устаревшего сообщения вне диалога настройки.
func TestBotService_ProcessCallback_StaleButton(t *testing.T) {
	f := newBotServiceFixture()
	ctx := context.Background()

	f.stateRepo.On("GetState", ctx, testChatID).Return(models.StateIdle, nil)
	f.stateRepo.On("SetState", ctx, testChatID, models.StateIdle).Return(nil)

	reply, err := f.service.ProcessCallback(ctx, testChatID, "day:25")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "/settings")
	f.txManager.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
}
