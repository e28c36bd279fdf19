package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
)

type ChatStateRepository struct {
	mock.Mock
}

func (m *ChatStateRepository) GetState(ctx context.Context, chatID int64) (models.ConversationState, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(models.ConversationState), args.Error(1)
}

func (m *ChatStateRepository) SetState(ctx context.Context, chatID int64, state models.ConversationState) error {
	args := m.Called(ctx, chatID, state)
	return args.Error(0)
}
