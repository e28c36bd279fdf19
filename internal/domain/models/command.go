package models

type CommandType string

const (
	CommandStart    CommandType = "/start"
	CommandStop     CommandType = "/stop"
	CommandRestart  CommandType = "/restart"
	CommandSettings CommandType = "/settings"
	CommandCancel   CommandType = "/cancel"
	CommandHowLong  CommandType = "/howlong"
	CommandHelp     CommandType = "/help"
	CommandAbout    CommandType = "/about"
	CommandUnknown  CommandType = "unknown"
)

type Command struct {
	Type     CommandType
	ChatID   int64
	UserID   int64
	Text     string
	Username string
}

// Значения callback-данных, которые приходят от inline-кнопок настроек.
const (
	CallbackXmasDay      = "xmas_day"
	CallbackReminderTime = "reminder_time"
	CallbackCancel       = "cancel"
)
