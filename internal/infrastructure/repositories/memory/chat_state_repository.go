package memory

import (
	"context"
	"sync"

	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
)

type ChatStateRepository struct {
	states map[int64]models.ConversationState
	mu     sync.RWMutex
}

func NewChatStateRepository() *ChatStateRepository {
	return &ChatStateRepository{
		states: make(map[int64]models.ConversationState),
	}
}

func (r *ChatStateRepository) GetState(_ context.Context, chatID int64) (models.ConversationState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.states[chatID]
	if !exists {
		return models.StateIdle, nil
	}

	return state, nil
}

func (r *ChatStateRepository) SetState(_ context.Context, chatID int64, state models.ConversationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[chatID] = state

	return nil
}
