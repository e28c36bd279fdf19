package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	customerrors "github.com/central-university-dev/go-xmas-reminder/internal/domain/errors"
	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
)

type ChatSettingsRepository struct {
	settings map[int64]*models.ChatSettings
	mu       sync.RWMutex
}

func NewChatSettingsRepository() *ChatSettingsRepository {
	return &ChatSettingsRepository{
		settings: make(map[int64]*models.ChatSettings),
	}
}

func (r *ChatSettingsRepository) Get(_ context.Context, chatID int64) (*models.ChatSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings, exists := r.settings[chatID]
	if !exists {
		return nil, &customerrors.ErrChatNotFound{ChatID: chatID}
	}

	clone := *settings

	return &clone, nil
}

func (r *ChatSettingsRepository) Save(_ context.Context, settings *models.ChatSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *settings
	clone.UpdatedAt = time.Now()

	r.settings[settings.ChatID] = &clone

	return nil
}

func (r *ChatSettingsRepository) FindAll(_ context.Context) ([]*models.ChatSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.ChatSettings, 0, len(r.settings))

	for _, settings := range r.settings {
		clone := *settings
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ChatID < result[j].ChatID
	})

	return result, nil
}

func (r *ChatSettingsRepository) SetRemindersEnabled(_ context.Context, chatID int64, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings, exists := r.settings[chatID]
	if !exists {
		return &customerrors.ErrChatNotFound{ChatID: chatID}
	}

	settings.RemindersEnabled = enabled
	settings.UpdatedAt = time.Now()

	return nil
}

func (r *ChatSettingsRepository) SetLastNotifiedVersion(_ context.Context, chatID int64, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings, exists := r.settings[chatID]
	if !exists {
		return &customerrors.ErrChatNotFound{ChatID: chatID}
	}

	settings.LastNotifiedVersion = version
	settings.UpdatedAt = time.Now()

	return nil
}
