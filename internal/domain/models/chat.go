package models

import (
	"time"
)

const (
	DefaultXmasDay        = 24
	DefaultReminderHour   = 20
	DefaultReminderMinute = 56
)

type ChatSettings struct {
	ChatID              int64
	XmasDay             int
	ReminderHour        int
	ReminderMinute      int
	RemindersEnabled    bool
	LastNotifiedVersion string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewDefaultChatSettings создаёт настройки чата со значениями по умолчанию.
func NewDefaultChatSettings(chatID int64, version string) *ChatSettings {
	now := time.Now()

	return &ChatSettings{
		ChatID:              chatID,
		XmasDay:             DefaultXmasDay,
		ReminderHour:        DefaultReminderHour,
		ReminderMinute:      DefaultReminderMinute,
		RemindersEnabled:    true,
		LastNotifiedVersion: version,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

type ConversationState int

const (
	StateIdle ConversationState = iota
	StateChoosingSetting
	StateAwaitingXmasDay
	StateAwaitingReminderTime
)
