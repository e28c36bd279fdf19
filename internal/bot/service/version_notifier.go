package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/central-university-dev/go-xmas-reminder/internal/common"
	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
	"github.com/central-university-dev/go-xmas-reminder/internal/scheduler"
)

// CurrentVersion задаёт текущую версию бота, с которой сравнивается
// последняя версия, о которой уведомляли чат.
const CurrentVersion = "1.1.0"

// oldestKnownVersion подставляется чатам, созданным до того, как версия
// начала сохраняться в настройках.
const oldestKnownVersion = "1.0.2"

// releaseNotes хранит список изменений по версиям, показывается в /about и в
// уведомлении «что нового».
var releaseNotes = []struct {
	Version string
	Notes   []string
}{
	{
		Version: "1.1.0",
		Notes: []string{
			"Настройка дня Рождества: 24 или 25 декабря " + common.EmojiXmas,
			"Настройка времени ежедневного напоминания " + common.EmojiAlarm,
			"Команда /settings с удобными кнопками " + common.EmojiGear,
		},
	},
	{
		Version: "1.0.2",
		Notes: []string{
			"Команда /howlong — сколько дней осталось до Рождества",
			"Исправлена отправка напоминаний после полуночи",
		},
	},
}

// VersionNotifier при старте находит чаты, которые ещё не видели текущую
// версию, и отправляет им отложенное уведомление «что нового».
type VersionNotifier struct {
	settingsRepo ChatSettingsRepository
	jobScheduler JobScheduler
	delay        time.Duration
	logger       *slog.Logger
}

func NewVersionNotifier(
	settingsRepo ChatSettingsRepository,
	jobScheduler JobScheduler,
	delay time.Duration,
	logger *slog.Logger,
) *VersionNotifier {
	return &VersionNotifier{
		settingsRepo: settingsRepo,
		jobScheduler: jobScheduler,
		delay:        delay,
		logger:       logger,
	}
}

// WhatsNewText собирает текст уведомления о новой версии.
func WhatsNewText() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Я обновился до версии %s! %s\n\nЧто нового:\n", CurrentVersion, common.EmojiTada))

	for _, note := range releaseNotes[0].Notes {
		sb.WriteString("• " + note + "\n")
	}

	return sb.String()
}

// AboutText собирает текст команды /about: версия и история изменений.
func AboutText() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Рождественский бот, версия %s %s\n", CurrentVersion, common.EmojiXmas))

	for _, release := range releaseNotes {
		sb.WriteString("\n" + release.Version + ":\n")

		for _, note := range release.Notes {
			sb.WriteString("• " + note + "\n")
		}
	}

	return sb.String()
}

// NotifyUpdatedChats просматривает все чаты и для каждого, чья сохранённая
// версия меньше текущей, ставит одноразовую отложенную отправку «что нового».
// Версия в хранилище обновляется сразу после постановки задачи, а не после
// отправки: при падении процесса уведомление может потеряться, но никогда
// не будет отправлено дважды.
func (n *VersionNotifier) NotifyUpdatedChats(ctx context.Context) error {
	current, err := models.ParseVersion(CurrentVersion)
	if err != nil {
		return err
	}

	all, err := n.settingsRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	notified := 0

	for _, settings := range all {
		stored := settings.LastNotifiedVersion
		if stored == "" {
			stored = oldestKnownVersion
		}

		known, err := models.ParseVersion(stored)
		if err != nil {
			n.logger.Error("Некорректная версия в настройках чата",
				"error", err,
				"chatID", settings.ChatID,
				"version", stored,
			)

			continue
		}

		if known.Compare(current) >= 0 {
			continue
		}

		payload := scheduler.OncePayload{
			ChatID: settings.ChatID,
			Text:   common.SantaSay(WhatsNewText()),
		}

		if err := n.jobScheduler.ScheduleOnce(jobKey(settings.ChatID), n.delay, payload); err != nil {
			n.logger.Error("Ошибка при постановке уведомления о версии",
				"error", err,
				"chatID", settings.ChatID,
			)

			continue
		}

		if err := n.settingsRepo.SetLastNotifiedVersion(ctx, settings.ChatID, CurrentVersion); err != nil {
			n.logger.Error("Ошибка при сохранении версии уведомления",
				"error", err,
				"chatID", settings.ChatID,
			)

			continue
		}

		notified++
	}

	n.logger.Info("Проверка версий чатов завершена",
		"total", len(all),
		"notified", notified,
	)

	return nil
}
