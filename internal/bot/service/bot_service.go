package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/central-university-dev/go-xmas-reminder/internal/bot/domain"
	"github.com/central-university-dev/go-xmas-reminder/internal/common"
	domainerrors "github.com/central-university-dev/go-xmas-reminder/internal/domain/errors"
	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
)

// Префиксы callback-данных для кнопок со значениями настроек.
const (
	callbackDayPrefix  = "day:"
	callbackTimePrefix = "time:"
)

// BotService обрабатывает команды и диалог настройки. Сам он сообщений
// не отправляет: возвращает Reply, а отправкой занимается поллер.
type BotService struct {
	settingsRepo    ChatSettingsRepository
	stateRepo       ChatStateRepository
	reminderService *ReminderService
	txManager       TxManager
	location        *time.Location
	logger          *slog.Logger
	now             func() time.Time
}

func NewBotService(
	settingsRepo ChatSettingsRepository,
	stateRepo ChatStateRepository,
	reminderService *ReminderService,
	txManager TxManager,
	location *time.Location,
	logger *slog.Logger,
) *BotService {
	return &BotService{
		settingsRepo:    settingsRepo,
		stateRepo:       stateRepo,
		reminderService: reminderService,
		txManager:       txManager,
		location:        location,
		logger:          logger,
		now:             time.Now,
	}
}

// BotCommands возвращает список команд, регистрируемый в Telegram при старте.
func BotCommands() []domain.BotCommand {
	return []domain.BotCommand{
		{Command: "start", Description: "Включить ежедневные напоминания"},
		{Command: "stop", Description: "Выключить напоминания"},
		{Command: "restart", Description: "Возобновить напоминания"},
		{Command: "settings", Description: "Настроить день и время"},
		{Command: "cancel", Description: "Прервать настройку"},
		{Command: "howlong", Description: "Сколько дней до Рождества"},
		{Command: "help", Description: "Справка по командам"},
		{Command: "about", Description: "Версия и список изменений"},
	}
}

func helpText() string {
	return "Я считаю дни до Рождества " + common.EmojiXmas + " и каждый день присылаю напоминание.\n\n" +
		"/start — включить напоминания\n" +
		"/stop — выключить напоминания " + common.EmojiStop + "\n" +
		"/restart — возобновить напоминания " + common.EmojiRestart + "\n" +
		"/settings — день Рождества и время напоминания " + common.EmojiGear + "\n" +
		"/cancel — прервать настройку\n" +
		"/howlong — сколько дней осталось\n" +
		"/about — версия бота"
}

// ProcessCommand обрабатывает команду бота и возвращает ответ пользователю.
func (s *BotService) ProcessCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	switch command.Type {
	case models.CommandStart:
		return s.handleStart(ctx, command)
	case models.CommandStop:
		return s.handleStop(ctx, command.ChatID)
	case models.CommandRestart:
		return s.handleRestart(ctx, command.ChatID)
	case models.CommandSettings:
		return s.handleSettings(ctx, command.ChatID)
	case models.CommandCancel:
		return s.handleCancel(ctx, command.ChatID)
	case models.CommandHowLong:
		return s.handleHowLong(ctx, command.ChatID)
	case models.CommandHelp:
		return &domain.Reply{Text: common.SantaSay(helpText())}, nil
	case models.CommandAbout:
		return &domain.Reply{Text: AboutText()}, nil
	default:
		return &domain.Reply{
			Text: fmt.Sprintf("Не знаю такую команду %s Попробуйте /help", common.EmojiBlush),
		}, nil
	}
}

func (s *BotService) handleStart(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	if err := s.reminderService.OnSettingsChanged(ctx, command.ChatID); err != nil {
		return nil, err
	}

	s.logger.Info("Чат подписан на напоминания",
		"chatID", command.ChatID,
		"username", command.Username,
	)

	greeting := fmt.Sprintf("Привет %s! Теперь я каждый день буду напоминать, сколько осталось до Рождества %s\n\n%s",
		common.EmojiWave, common.EmojiXmas, helpText())

	return &domain.Reply{Text: common.SantaSay(greeting)}, nil
}

func (s *BotService) handleStop(ctx context.Context, chatID int64) (*domain.Reply, error) {
	removed, err := s.reminderService.OnStop(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !removed {
		return &domain.Reply{
			Text: fmt.Sprintf("Напоминания и так выключены %s Включить обратно — /restart", common.EmojiBlush),
		}, nil
	}

	return &domain.Reply{
		Text: fmt.Sprintf("Напоминания выключены %s Вернуть их можно командой /restart", common.EmojiStop),
	}, nil
}

func (s *BotService) handleRestart(ctx context.Context, chatID int64) (*domain.Reply, error) {
	started, err := s.reminderService.OnRestart(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !started {
		return &domain.Reply{
			Text: fmt.Sprintf("Напоминания уже настроены %s Изменить их можно через /settings", common.EmojiGrin),
		}, nil
	}

	return &domain.Reply{
		Text: fmt.Sprintf("Напоминания возобновлены %s До встречи в %s!", common.EmojiRestart, common.EmojiXmas),
	}, nil
}

func (s *BotService) handleSettings(ctx context.Context, chatID int64) (*domain.Reply, error) {
	settings, err := s.reminderService.EnsureSettings(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.stateRepo.SetState(ctx, chatID, models.StateChoosingSetting); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Текущие настройки %s\n\nДень Рождества: %d декабря\nВремя напоминания: %s\n\nЧто изменить?",
		common.EmojiGear, settings.XmasDay, formatTime(settings.ReminderHour, settings.ReminderMinute))

	return &domain.Reply{Text: text, Keyboard: settingsKeyboard()}, nil
}

func (s *BotService) handleCancel(ctx context.Context, chatID int64) (*domain.Reply, error) {
	if err := s.stateRepo.SetState(ctx, chatID, models.StateIdle); err != nil {
		return nil, err
	}

	return &domain.Reply{
		Text: fmt.Sprintf("Хорошо, настройка отменена %s", common.EmojiBlush),
	}, nil
}

// handleHowLong отвечает сразу, без троттлинга ежедневных напоминаний.
func (s *BotService) handleHowLong(ctx context.Context, chatID int64) (*domain.Reply, error) {
	settings, err := s.reminderService.EnsureSettings(ctx, chatID)
	if err != nil {
		return nil, err
	}

	today := s.now().In(s.location)
	diff := common.DaysUntil(today, settings.XmasDay)
	variant := common.SelectMessage(diff, common.IsNewYearsDay(today))

	return &domain.Reply{Text: common.SantaSay(common.RenderMessage(variant, diff))}, nil
}

// ProcessText обрабатывает обычное текстовое сообщение в контексте диалога
// настройки: в состояниях ожидания текст трактуется как введённое значение.
func (s *BotService) ProcessText(ctx context.Context, chatID int64, text string) (*domain.Reply, error) {
	state, err := s.stateRepo.GetState(ctx, chatID)
	if err != nil {
		return nil, err
	}

	switch state {
	case models.StateAwaitingXmasDay:
		return s.applyXmasDay(ctx, chatID, strings.TrimSpace(text))
	case models.StateAwaitingReminderTime:
		return s.applyReminderTime(ctx, chatID, strings.TrimSpace(text))
	case models.StateChoosingSetting:
		return &domain.Reply{
			Text:     "Выберите настройку кнопкой ниже или отмените через /cancel",
			Keyboard: settingsKeyboard(),
		}, nil
	case models.StateIdle:
		return &domain.Reply{
			Text: fmt.Sprintf("Я понимаю только команды %s Список — /help", common.EmojiBlush),
		}, nil
	default:
		return &domain.Reply{
			Text: fmt.Sprintf("Я понимаю только команды %s Список — /help", common.EmojiBlush),
		}, nil
	}
}

// ProcessCallback обрабатывает нажатие inline-кнопки диалога настройки.
func (s *BotService) ProcessCallback(ctx context.Context, chatID int64, data string) (*domain.Reply, error) {
	if data == models.CallbackCancel {
		return s.handleCancel(ctx, chatID)
	}

	state, err := s.stateRepo.GetState(ctx, chatID)
	if err != nil {
		return nil, err
	}

	switch state {
	case models.StateChoosingSetting:
		return s.chooseSetting(ctx, chatID, data)
	case models.StateAwaitingXmasDay:
		if value, ok := strings.CutPrefix(data, callbackDayPrefix); ok {
			return s.applyXmasDay(ctx, chatID, value)
		}
	case models.StateAwaitingReminderTime:
		if value, ok := strings.CutPrefix(data, callbackTimePrefix); ok {
			return s.applyReminderTime(ctx, chatID, value)
		}
	case models.StateIdle:
	}

	// Кнопка от старого сообщения или рассинхронизация состояния.
	if err := s.stateRepo.SetState(ctx, chatID, models.StateIdle); err != nil {
		return nil, err
	}

	return &domain.Reply{
		Text: fmt.Sprintf("Кажется, мы сбились %s Начните настройку заново: /settings", common.EmojiBlush),
	}, nil
}

func (s *BotService) chooseSetting(ctx context.Context, chatID int64, data string) (*domain.Reply, error) {
	switch data {
	case models.CallbackXmasDay:
		if err := s.stateRepo.SetState(ctx, chatID, models.StateAwaitingXmasDay); err != nil {
			return nil, err
		}

		return &domain.Reply{
			Text:     "Какой день считаем Рождеством " + common.EmojiXmas + "?",
			Keyboard: xmasDayKeyboard(),
		}, nil
	case models.CallbackReminderTime:
		if err := s.stateRepo.SetState(ctx, chatID, models.StateAwaitingReminderTime); err != nil {
			return nil, err
		}

		return &domain.Reply{
			Text:     "Во сколько присылать напоминание " + common.EmojiAlarm + "? Выберите вариант или отправьте время в формате ЧЧ:ММ",
			Keyboard: reminderTimeKeyboard(),
		}, nil
	default:
		s.logger.Warn("Неизвестная настройка в callback",
			"chatID", chatID,
			"data", data,
		)

		if err := s.stateRepo.SetState(ctx, chatID, models.StateIdle); err != nil {
			return nil, err
		}

		return nil, &domainerrors.ErrUnknownSetting{Setting: data}
	}
}

func (s *BotService) applyXmasDay(ctx context.Context, chatID int64, value string) (*domain.Reply, error) {
	day, err := strconv.Atoi(value)
	if err != nil || (day != 24 && day != 25) {
		return &domain.Reply{
			Text:     fmt.Sprintf("Рождество бывает 24 или 25 декабря %s Выберите один из вариантов", common.EmojiWink),
			Keyboard: xmasDayKeyboard(),
		}, nil
	}

	if err := s.updateSettings(ctx, chatID, func(settings *models.ChatSettings) {
		settings.XmasDay = day
	}); err != nil {
		return nil, err
	}

	return &domain.Reply{
		Text: fmt.Sprintf("Готово! Теперь Рождество — %d декабря %s", day, common.EmojiXmas),
	}, nil
}

func (s *BotService) applyReminderTime(ctx context.Context, chatID int64, value string) (*domain.Reply, error) {
	hour, minute, err := parseReminderTime(value)
	if err != nil {
		return &domain.Reply{
			Text:     fmt.Sprintf("Не получилось разобрать время %s Отправьте его в формате ЧЧ:ММ, например 20:56", common.EmojiBlush),
			Keyboard: reminderTimeKeyboard(),
		}, nil
	}

	if err := s.updateSettings(ctx, chatID, func(settings *models.ChatSettings) {
		settings.ReminderHour = hour
		settings.ReminderMinute = minute
	}); err != nil {
		return nil, err
	}

	return &domain.Reply{
		Text: fmt.Sprintf("Готово! Буду писать в %s %s", formatTime(hour, minute), common.EmojiAlarm),
	}, nil
}

// updateSettings изменяет настройки чата в транзакции, переводит диалог в
// исходное состояние и пересоздаёт ежедневную задачу.
func (s *BotService) updateSettings(ctx context.Context, chatID int64, mutate func(settings *models.ChatSettings)) error {
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		settings, err := s.reminderService.EnsureSettings(ctx, chatID)
		if err != nil {
			return err
		}

		mutate(settings)
		settings.UpdatedAt = time.Now()

		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			return err
		}

		return s.stateRepo.SetState(ctx, chatID, models.StateIdle)
	})
	if err != nil {
		return err
	}

	return s.reminderService.OnSettingsChanged(ctx, chatID)
}

func parseReminderTime(value string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, &domainerrors.ErrInvalidReminderTime{Value: value}
	}

	hour, errHour := strconv.Atoi(parts[0])
	minute, errMinute := strconv.Atoi(parts[1])

	if errHour != nil || errMinute != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, &domainerrors.ErrInvalidReminderTime{Value: value}
	}

	return hour, minute, nil
}

func formatTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func settingsKeyboard() *domain.InlineKeyboard {
	return &domain.InlineKeyboard{
		Rows: [][]domain.InlineButton{
			{{Text: "День Рождества " + common.EmojiXmas, Data: models.CallbackXmasDay}},
			{{Text: "Время напоминания " + common.EmojiAlarm, Data: models.CallbackReminderTime}},
			{{Text: "Отмена", Data: models.CallbackCancel}},
		},
	}
}

func xmasDayKeyboard() *domain.InlineKeyboard {
	return &domain.InlineKeyboard{
		Rows: [][]domain.InlineButton{
			{
				{Text: "24 декабря", Data: callbackDayPrefix + "24"},
				{Text: "25 декабря", Data: callbackDayPrefix + "25"},
			},
			{{Text: "Отмена", Data: models.CallbackCancel}},
		},
	}
}

func reminderTimeKeyboard() *domain.InlineKeyboard {
	return &domain.InlineKeyboard{
		Rows: [][]domain.InlineButton{
			{
				{Text: "08:00", Data: callbackTimePrefix + "08:00"},
				{Text: "12:00", Data: callbackTimePrefix + "12:00"},
				{Text: "18:00", Data: callbackTimePrefix + "18:00"},
			},
			{{Text: "Отмена", Data: models.CallbackCancel}},
		},
	}
}
