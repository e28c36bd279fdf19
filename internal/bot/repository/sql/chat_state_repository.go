package sql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/central-university-dev/go-xmas-reminder/internal/database"
	customerrors "github.com/central-university-dev/go-xmas-reminder/internal/domain/errors"
	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
	"github.com/central-university-dev/go-xmas-reminder/pkg/txs"
)

type ChatStateRepository struct {
	db *database.PostgresDB
}

func NewChatStateRepository(db *database.PostgresDB) *ChatStateRepository {
	return &ChatStateRepository{db: db}
}

func (r *ChatStateRepository) GetState(ctx context.Context, chatID int64) (models.ConversationState, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	var state int

	err := querier.QueryRow(ctx, "SELECT state FROM chat_states WHERE chat_id = $1", chatID).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Чат без записи считается находящимся вне диалога настройки.
			return models.StateIdle, nil
		}

		return models.StateIdle, &customerrors.ErrSQLExecution{Operation: "получение состояния чата", Cause: err}
	}

	return models.ConversationState(state), nil
}

func (r *ChatStateRepository) SetState(ctx context.Context, chatID int64, state models.ConversationState) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	now := time.Now()

	_, err := querier.Exec(ctx, `
		INSERT INTO chat_states (chat_id, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id) DO UPDATE SET
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at
	`, chatID, int(state), now, now)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение состояния чата", Cause: err}
	}

	return nil
}
