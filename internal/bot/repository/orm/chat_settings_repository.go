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

var settingsColumns = []string{
	"chat_id", "xmas_day", "reminder_hour", "reminder_minute",
	"reminders_enabled", "last_notified_version", "created_at", "updated_at",
}

type ChatSettingsRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewChatSettingsRepository(db *database.PostgresDB) *ChatSettingsRepository {
	return &ChatSettingsRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ChatSettingsRepository) Get(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select(settingsColumns...).
		From("chat_settings").
		Where(sq.Eq{"chat_id": chatID})

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение настроек чата", Cause: err}
	}

	settings := &models.ChatSettings{}

	err = querier.QueryRow(ctx, query, args...).
		Scan(&settings.ChatID, &settings.XmasDay, &settings.ReminderHour, &settings.ReminderMinute,
			&settings.RemindersEnabled, &settings.LastNotifiedVersion, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrChatNotFound{ChatID: chatID}
		}

		return nil, &customerrors.ErrSQLExecution{Operation: "получение настроек чата", Cause: err}
	}

	return settings, nil
}

func (r *ChatSettingsRepository) Save(ctx context.Context, settings *models.ChatSettings) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	now := time.Now()
	upsertQuery := r.sq.Insert("chat_settings").
		Columns(settingsColumns...).
		Values(settings.ChatID, settings.XmasDay, settings.ReminderHour, settings.ReminderMinute,
			settings.RemindersEnabled, settings.LastNotifiedVersion, now, now).
		Suffix(`ON CONFLICT (chat_id) DO UPDATE SET
			xmas_day = EXCLUDED.xmas_day,
			reminder_hour = EXCLUDED.reminder_hour,
			reminder_minute = EXCLUDED.reminder_minute,
			reminders_enabled = EXCLUDED.reminders_enabled,
			last_notified_version = EXCLUDED.last_notified_version,
			updated_at = EXCLUDED.updated_at`)

	query, args, err := upsertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "вставка/обновление настроек", Cause: err}
	}

	_, err = querier.Exec(ctx, query, args...)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение настроек чата", Cause: err}
	}

	return nil
}

func (r *ChatSettingsRepository) FindAll(ctx context.Context) ([]*models.ChatSettings, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select(settingsColumns...).
		From("chat_settings").
		OrderBy("chat_id")

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение всех настроек", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "получение всех настроек", Cause: err}
	}
	defer rows.Close()

	var result []*models.ChatSettings

	for rows.Next() {
		settings := &models.ChatSettings{}

		err := rows.Scan(&settings.ChatID, &settings.XmasDay, &settings.ReminderHour, &settings.ReminderMinute,
			&settings.RemindersEnabled, &settings.LastNotifiedVersion, &settings.CreatedAt, &settings.UpdatedAt)
		if err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "настройки чата", Cause: err}
		}

		result = append(result, settings)
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "чтение всех настроек", Cause: err}
	}

	return result, nil
}

func (r *ChatSettingsRepository) SetRemindersEnabled(ctx context.Context, chatID int64, enabled bool) error {
	return r.updateField(ctx, chatID, "reminders_enabled", enabled, "обновление флага напоминаний")
}

func (r *ChatSettingsRepository) SetLastNotifiedVersion(ctx context.Context, chatID int64, version string) error {
	return r.updateField(ctx, chatID, "last_notified_version", version, "обновление версии уведомления")
}

func (r *ChatSettingsRepository) updateField(ctx context.Context, chatID int64, column string, value any, operation string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	updateQuery := r.sq.Update("chat_settings").
		Set(column, value).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"chat_id": chatID})

	query, args, err := updateQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: operation, Cause: err}
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: operation, Cause: err}
	}

	if tag.RowsAffected() == 0 {
		return &customerrors.ErrChatNotFound{ChatID: chatID}
	}

	return nil
}
