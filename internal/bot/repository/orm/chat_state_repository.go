package orm

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/central-university-dev/go-xmas-reminder/internal/database"
	customerrors "github.com/central-university-dev/go-xmas-reminder/internal/domain/errors"
	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
	"github.com/central-university-dev/go-xmas-reminder/pkg/txs"
)

type ChatStateRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewChatStateRepository(db *database.PostgresDB) *ChatStateRepository {
	return &ChatStateRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ChatStateRepository) GetState(ctx context.Context, chatID int64) (models.ConversationState, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("state").
		From("chat_states").
		Where(sq.Eq{"chat_id": chatID})

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return models.StateIdle, &customerrors.ErrBuildSQLQuery{Operation: "получение состояния чата", Cause: err}
	}

	var state int

	err = querier.QueryRow(ctx, query, args...).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.StateIdle, nil
		}

		return models.StateIdle, &customerrors.ErrSQLExecution{Operation: "получение состояния чата", Cause: err}
	}

	return models.ConversationState(state), nil
}

func (r *ChatStateRepository) SetState(ctx context.Context, chatID int64, state models.ConversationState) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	now := time.Now()
	upsertQuery := r.sq.Insert("chat_states").
		Columns("chat_id", "state", "created_at", "updated_at").
		Values(chatID, int(state), now, now).
		Suffix("ON CONFLICT (chat_id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at")

	query, args, err := upsertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "вставка/обновление состояния", Cause: err}
	}

	_, err = querier.Exec(ctx, query, args...)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение состояния чата", Cause: err}
	}

	return nil
}
