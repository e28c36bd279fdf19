package domain

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramClientAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string) error

	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboard) error

	EditMessageText(ctx context.Context, chatID int64, messageID int64, text string, keyboard *InlineKeyboard) error

	AnswerCallbackQuery(ctx context.Context, callbackID string) error

	SetMyCommands(ctx context.Context, commands []BotCommand) error

	GetBot() *tgbotapi.BotAPI
}
