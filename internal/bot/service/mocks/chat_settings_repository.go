package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
)

type ChatSettingsRepository struct {
	mock.Mock
}

func (m *ChatSettingsRepository) Get(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	args := m.Called(ctx, chatID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ChatSettings), args.Error(1)
}

func (m *ChatSettingsRepository) Save(ctx context.Context, settings *models.ChatSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *ChatSettingsRepository) FindAll(ctx context.Context) ([]*models.ChatSettings, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.ChatSettings), args.Error(1)
}

func (m *ChatSettingsRepository) SetRemindersEnabled(ctx context.Context, chatID int64, enabled bool) error {
	args := m.Called(ctx, chatID, enabled)
	return args.Error(0)
}

func (m *ChatSettingsRepository) SetLastNotifiedVersion(ctx context.Context, chatID int64, version string) error {
	args := m.Called(ctx, chatID, version)
	return args.Error(0)
}
