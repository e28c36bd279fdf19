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

type ChatSettingsRepository struct {
	db *database.PostgresDB
}

func NewChatSettingsRepository(db *database.PostgresDB) *ChatSettingsRepository {
	return &ChatSettingsRepository{db: db}
}

func (r *ChatSettingsRepository) Get(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	settings := &models.ChatSettings{}

	err := querier.QueryRow(ctx,
		`SELECT chat_id, xmas_day, reminder_hour, reminder_minute, reminders_enabled,
			last_notified_version, created_at, updated_at
		 FROM chat_settings WHERE chat_id = $1`, chatID).
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

	_, err := querier.Exec(ctx, `
		INSERT INTO chat_settings (chat_id, xmas_day, reminder_hour, reminder_minute,
			reminders_enabled, last_notified_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (chat_id) DO UPDATE SET
			xmas_day = EXCLUDED.xmas_day,
			reminder_hour = EXCLUDED.reminder_hour,
			reminder_minute = EXCLUDED.reminder_minute,
			reminders_enabled = EXCLUDED.reminders_enabled,
			last_notified_version = EXCLUDED.last_notified_version,
			updated_at = EXCLUDED.updated_at
	`, settings.ChatID, settings.XmasDay, settings.ReminderHour, settings.ReminderMinute,
		settings.RemindersEnabled, settings.LastNotifiedVersion, now, now)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение настроек чата", Cause: err}
	}

	return nil
}

func (r *ChatSettingsRepository) FindAll(ctx context.Context) ([]*models.ChatSettings, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	rows, err := querier.Query(ctx,
		`SELECT chat_id, xmas_day, reminder_hour, reminder_minute, reminders_enabled,
			last_notified_version, created_at, updated_at
		 FROM chat_settings ORDER BY chat_id`)
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
	querier := txs.GetQuerier(ctx, r.db.Pool)

	tag, err := querier.Exec(ctx,
		"UPDATE chat_settings SET reminders_enabled = $1, updated_at = $2 WHERE chat_id = $3",
		enabled, time.Now(), chatID)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "обновление флага напоминаний", Cause: err}
	}

	if tag.RowsAffected() == 0 {
		return &customerrors.ErrChatNotFound{ChatID: chatID}
	}

	return nil
}

func (r *ChatSettingsRepository) SetLastNotifiedVersion(ctx context.Context, chatID int64, version string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	tag, err := querier.Exec(ctx,
		"UPDATE chat_settings SET last_notified_version = $1, updated_at = $2 WHERE chat_id = $3",
		version, time.Now(), chatID)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "обновление версии уведомления", Cause: err}
	}

	if tag.RowsAffected() == 0 {
		return &customerrors.ErrChatNotFound{ChatID: chatID}
	}

	return nil
}
