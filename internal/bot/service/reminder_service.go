package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/central-university-dev/go-xmas-reminder/internal/bot/domain"
	"github.com/central-university-dev/go-xmas-reminder/internal/common"
	"github.com/central-university-dev/go-xmas-reminder/internal/common/metrics"
	domainerrors "github.com/central-university-dev/go-xmas-reminder/internal/domain/errors"
	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
	"github.com/central-university-dev/go-xmas-reminder/internal/scheduler"
)

const sendTimeout = 10 * time.Second

// ReminderService управляет жизненным циклом ежедневных напоминаний:
// по изменению настроек пересоздаёт задачу чата, по срабатыванию задачи
// выбирает сообщение и отправляет его через Telegram.
type ReminderService struct {
	settingsRepo   ChatSettingsRepository
	jobScheduler   JobScheduler
	telegramClient domain.TelegramClientAPI
	location       *time.Location
	logger         *slog.Logger
	now            func() time.Time

	// Операции по одному чату сериализуются: смена настроек и срабатывание
	// задачи того же чата могут идти конкурентно.
	chatMu sync.Mutex
	chats  map[int64]*sync.Mutex
}

func NewReminderService(
	settingsRepo ChatSettingsRepository,
	jobScheduler JobScheduler,
	telegramClient domain.TelegramClientAPI,
	location *time.Location,
	logger *slog.Logger,
) *ReminderService {
	return &ReminderService{
		settingsRepo:   settingsRepo,
		jobScheduler:   jobScheduler,
		telegramClient: telegramClient,
		location:       location,
		logger:         logger,
		now:            time.Now,
		chats:          make(map[int64]*sync.Mutex),
	}
}

func jobKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (s *ReminderService) lockChat(chatID int64) *sync.Mutex {
	s.chatMu.Lock()
	mu, ok := s.chats[chatID]

	if !ok {
		mu = &sync.Mutex{}
		s.chats[chatID] = mu
	}
	s.chatMu.Unlock()

	mu.Lock()

	return mu
}

// EnsureSettings возвращает настройки чата, лениво создавая запись со
// значениями по умолчанию при первом обращении.
func (s *ReminderService) EnsureSettings(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	settings, err := s.settingsRepo.Get(ctx, chatID)
	if err == nil {
		return settings, nil
	}

	if !errors.Is(err, &domainerrors.ErrChatNotFound{}) {
		return nil, err
	}

	settings = models.NewDefaultChatSettings(chatID, CurrentVersion)
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("Создана запись чата со значениями по умолчанию",
		"chatID", chatID,
	)

	return settings, nil
}

// OnSettingsChanged пересоздаёт ежедневную задачу чата по текущим настройкам
// и включает напоминания. Флаг remindersEnabled и наличие задачи не должны
// расходиться ни на одном переходе.
func (s *ReminderService) OnSettingsChanged(ctx context.Context, chatID int64) error {
	mu := s.lockChat(chatID)
	defer mu.Unlock()

	return s.resyncJob(ctx, chatID)
}

// resyncJob выполняет пересоздание задачи; вызывается только под мьютексом чата.
func (s *ReminderService) resyncJob(ctx context.Context, chatID int64) error {
	settings, err := s.EnsureSettings(ctx, chatID)
	if err != nil {
		return err
	}

	payload := scheduler.DailyPayload{ChatID: chatID, XmasDay: settings.XmasDay}

	if err := s.jobScheduler.ReplaceDaily(jobKey(chatID), settings.ReminderHour, settings.ReminderMinute, payload); err != nil {
		return err
	}

	if !settings.RemindersEnabled {
		if err := s.settingsRepo.SetRemindersEnabled(ctx, chatID, true); err != nil {
			return err
		}
	}

	return nil
}

// OnStop снимает задачу чата и выключает напоминания. Возвращает, была ли
// задача на самом деле: ответ пользователю («нечего удалять» или «удалено»)
// формирует транспортный слой. Для чата без записи сначала создаётся запись
// по умолчанию: /stop первой командой не ошибка, а «нечего удалять».
func (s *ReminderService) OnStop(ctx context.Context, chatID int64) (bool, error) {
	mu := s.lockChat(chatID)
	defer mu.Unlock()

	if _, err := s.EnsureSettings(ctx, chatID); err != nil {
		return false, err
	}

	removed := s.jobScheduler.Cancel(jobKey(chatID))

	if err := s.settingsRepo.SetRemindersEnabled(ctx, chatID, false); err != nil {
		return removed, err
	}

	return removed, nil
}

// OnRestart ставит задачу заново, если её нет. Если задача уже есть,
// ничего не делает и возвращает false («уже настроено»). Проверка и
// пересоздание идут под одним мьютексом чата, иначе конкурентный /stop
// может вклиниться между ними.
func (s *ReminderService) OnRestart(ctx context.Context, chatID int64) (bool, error) {
	mu := s.lockChat(chatID)
	defer mu.Unlock()

	if s.jobScheduler.Exists(jobKey(chatID)) {
		return false, nil
	}

	if err := s.resyncJob(ctx, chatID); err != nil {
		return false, err
	}

	return true, nil
}

// HasActiveJob сообщает, установлена ли ежедневная задача для чата.
func (s *ReminderService) HasActiveJob(chatID int64) bool {
	return s.jobScheduler.Exists(jobKey(chatID))
}

// RestoreJobs устанавливает задачи для всех включённых чатов из хранилища.
// Вызывается один раз при старте процесса до приёма входящих событий.
func (s *ReminderService) RestoreJobs(ctx context.Context) error {
	all, err := s.settingsRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	restored := 0

	for _, settings := range all {
		if !settings.RemindersEnabled {
			continue
		}

		payload := scheduler.DailyPayload{ChatID: settings.ChatID, XmasDay: settings.XmasDay}

		if err := s.jobScheduler.ScheduleDaily(jobKey(settings.ChatID), settings.ReminderHour, settings.ReminderMinute, payload); err != nil {
			s.logger.Error("Ошибка при восстановлении задачи чата",
				"error", err,
				"chatID", settings.ChatID,
			)

			continue
		}

		restored++
	}

	s.logger.Info("Задачи напоминаний восстановлены",
		"total", len(all),
		"restored", restored,
	)

	return nil
}

// HandleDailyFire обрабатывает срабатывание ежедневной задачи.
// Подавление отправки троттлингом считается штатным случаем большую часть
// года, а не ошибкой. Ошибки отправки логируются и проглатываются: задача
// остаётся активной и естественно повторит попытку на следующий день.
func (s *ReminderService) HandleDailyFire(payload scheduler.DailyPayload) {
	mu := s.lockChat(payload.ChatID)
	defer mu.Unlock()

	today := s.now().In(s.location)
	diff := common.DaysUntil(today, payload.XmasDay)
	isNewYear := common.IsNewYearsDay(today)

	if !common.ShouldSend(diff, isNewYear) {
		metrics.RecordReminderThrottled()

		s.logger.Debug("Напоминание подавлено троттлингом",
			"chatID", payload.ChatID,
			"diffDays", diff,
		)

		return
	}

	variant := common.SelectMessage(diff, isNewYear)
	text := common.SantaSay(common.RenderMessage(variant, diff))

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.telegramClient.SendMessage(ctx, payload.ChatID, text); err != nil {
		metrics.RecordSendError()

		s.logger.Error("Ошибка при отправке напоминания",
			"error", err,
			"chatID", payload.ChatID,
		)

		return
	}

	metrics.RecordReminderSent(variant.String())

	s.logger.Info("Напоминание отправлено",
		"chatID", payload.ChatID,
		"variant", variant.String(),
		"diffDays", diff,
	)
}

// HandleOnceFire обрабатывает срабатывание одноразовых задач (уведомления "что нового").
func (s *ReminderService) HandleOnceFire(payload scheduler.OncePayload) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.telegramClient.SendMessage(ctx, payload.ChatID, payload.Text); err != nil {
		metrics.RecordSendError()

		s.logger.Error("Ошибка при отправке уведомления о новой версии",
			"error", err,
			"chatID", payload.ChatID,
		)

		return
	}

	metrics.RecordWhatsNewSent()
}
