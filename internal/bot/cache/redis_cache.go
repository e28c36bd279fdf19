package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
)

type SettingsCache interface {
	GetSettings(ctx context.Context, chatID int64) (*models.ChatSettings, error)
	SetSettings(ctx context.Context, chatID int64, settings *models.ChatSettings) error
	DeleteSettings(ctx context.Context, chatID int64) error
}

type RedisSettingsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisSettingsCache(redisURL, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisSettingsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка при подключении к Redis: %w", err)
	}

	logger.Info("Соединение с Redis успешно установлено")

	return &RedisSettingsCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func settingsKey(chatID int64) string {
	return fmt.Sprintf("settings:%d", chatID)
}

// GetSettings возвращает (nil, nil), если записи в кэше нет.
func (c *RedisSettingsCache) GetSettings(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	data, err := c.client.Get(ctx, settingsKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.Debug("Кэш не найден",
				"chatID", chatID,
			)

			return nil, nil
		}

		c.logger.Error("Ошибка при получении данных из Redis",
			"error", err,
			"chatID", chatID,
		)

		return nil, fmt.Errorf("ошибка при получении данных из Redis: %w", err)
	}

	settings := &models.ChatSettings{}
	if err := json.Unmarshal(data, settings); err != nil {
		c.logger.Error("Ошибка при десериализации данных из Redis",
			"error", err,
			"chatID", chatID,
		)

		return nil, fmt.Errorf("ошибка при десериализации данных из Redis: %w", err)
	}

	return settings, nil
}

func (c *RedisSettingsCache) SetSettings(ctx context.Context, chatID int64, settings *models.ChatSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		c.logger.Error("Ошибка при сериализации данных для Redis",
			"error", err,
			"chatID", chatID,
		)

		return fmt.Errorf("ошибка при сериализации данных для Redis: %w", err)
	}

	if err := c.client.Set(ctx, settingsKey(chatID), data, c.ttl).Err(); err != nil {
		c.logger.Error("Ошибка при сохранении данных в Redis",
			"error", err,
			"chatID", chatID,
		)

		return fmt.Errorf("ошибка при сохранении данных в Redis: %w", err)
	}

	return nil
}

func (c *RedisSettingsCache) DeleteSettings(ctx context.Context, chatID int64) error {
	if err := c.client.Del(ctx, settingsKey(chatID)).Err(); err != nil {
		c.logger.Error("Ошибка при удалении данных из Redis",
			"error", err,
			"chatID", chatID,
		)

		return fmt.Errorf("ошибка при удалении данных из Redis: %w", err)
	}

	return nil
}

func (c *RedisSettingsCache) Close() error {
	return c.client.Close()
}
