package repository

import (
	"context"
	"log/slog"

	"github.com/central-university-dev/go-xmas-reminder/internal/bot/cache"
	"github.com/central-university-dev/go-xmas-reminder/internal/bot/service"
	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
)

// CachedChatSettingsRepository реализует кэширующий декоратор над репозиторием
// настроек. Чтение идёт через Redis, запись инвалидирует кэш. Ошибки кэша
// не фатальны: репозиторий продолжает работать напрямую с базой.
type CachedChatSettingsRepository struct {
	repo   service.ChatSettingsRepository
	cache  cache.SettingsCache
	logger *slog.Logger
}

func NewCachedChatSettingsRepository(
	repo service.ChatSettingsRepository,
	settingsCache cache.SettingsCache,
	logger *slog.Logger,
) *CachedChatSettingsRepository {
	return &CachedChatSettingsRepository{
		repo:   repo,
		cache:  settingsCache,
		logger: logger,
	}
}

func (r *CachedChatSettingsRepository) Get(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	cached, err := r.cache.GetSettings(ctx, chatID)
	if err == nil && cached != nil {
		return cached, nil
	}

	if err != nil {
		r.logger.Error("Ошибка при чтении кэша настроек",
			"error", err,
			"chatID", chatID,
		)
	}

	settings, err := r.repo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if cacheErr := r.cache.SetSettings(ctx, chatID, settings); cacheErr != nil {
		r.logger.Error("Ошибка при сохранении настроек в кэш",
			"error", cacheErr,
			"chatID", chatID,
		)
	}

	return settings, nil
}

func (r *CachedChatSettingsRepository) Save(ctx context.Context, settings *models.ChatSettings) error {
	if err := r.repo.Save(ctx, settings); err != nil {
		return err
	}

	r.invalidate(ctx, settings.ChatID)

	return nil
}

// FindAll не кэшируется: вызывается только при старте процесса.
func (r *CachedChatSettingsRepository) FindAll(ctx context.Context) ([]*models.ChatSettings, error) {
	return r.repo.FindAll(ctx)
}

func (r *CachedChatSettingsRepository) SetRemindersEnabled(ctx context.Context, chatID int64, enabled bool) error {
	if err := r.repo.SetRemindersEnabled(ctx, chatID, enabled); err != nil {
		return err
	}

	r.invalidate(ctx, chatID)

	return nil
}

func (r *CachedChatSettingsRepository) SetLastNotifiedVersion(ctx context.Context, chatID int64, version string) error {
	if err := r.repo.SetLastNotifiedVersion(ctx, chatID, version); err != nil {
		return err
	}

	r.invalidate(ctx, chatID)

	return nil
}

func (r *CachedChatSettingsRepository) invalidate(ctx context.Context, chatID int64) {
	if err := r.cache.DeleteSettings(ctx, chatID); err != nil {
		r.logger.Error("Ошибка при инвалидации кэша настроек",
			"error", err,
			"chatID", chatID,
		)
	}
}
