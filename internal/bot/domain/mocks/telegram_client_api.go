package mocks

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"

	"github.com/central-university-dev/go-xmas-reminder/internal/bot/domain"
)

type TelegramClientAPI struct {
	mock.Mock
}

func (m *TelegramClientAPI) SendMessage(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func (m *TelegramClientAPI) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *domain.InlineKeyboard) error {
	args := m.Called(ctx, chatID, text, keyboard)
	return args.Error(0)
}

func (m *TelegramClientAPI) EditMessageText(ctx context.Context, chatID int64, messageID int64, text string, keyboard *domain.InlineKeyboard) error {
	args := m.Called(ctx, chatID, messageID, text, keyboard)
	return args.Error(0)
}

func (m *TelegramClientAPI) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	args := m.Called(ctx, callbackID)
	return args.Error(0)
}

func (m *TelegramClientAPI) SetMyCommands(ctx context.Context, commands []domain.BotCommand) error {
	args := m.Called(ctx, commands)
	return args.Error(0)
}

func (m *TelegramClientAPI) GetBot() *tgbotapi.BotAPI {
	args := m.Called()

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(*tgbotapi.BotAPI)
}
