package clients

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/central-university-dev/go-xmas-reminder/internal/bot/domain"
	domainerrors "github.com/central-university-dev/go-xmas-reminder/internal/domain/errors"
)

type TelegramClient struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewTelegramClient создаёт клиента Telegram API. Исходящие отправки
// ограничиваются лимитером: Telegram допускает порядка 30 сообщений в секунду.
func NewTelegramClient(token string, sendsPerSecond int, logger *slog.Logger) domain.TelegramClientAPI {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Ошибка при создании Telegram клиента", "error", err)
	}

	if sendsPerSecond <= 0 {
		sendsPerSecond = 30
	}

	return &TelegramClient{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(sendsPerSecond), sendsPerSecond),
		logger:  logger,
	}
}

// SetBaseURL устанавливает базовый URL для API Telegram (используется в тестах).
func (c *TelegramClient) SetBaseURL(url string) {
	if c.bot != nil {
		c.bot.SetAPIEndpoint(url)
	}
}

func (c *TelegramClient) send(ctx context.Context, chatID int64, msg tgbotapi.Chattable) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &domainerrors.ErrTelegramSend{ChatID: chatID, Cause: err}
	}

	if _, err := c.bot.Send(msg); err != nil {
		return &domainerrors.ErrTelegramSend{ChatID: chatID, Cause: err}
	}

	return nil
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.send(ctx, chatID, tgbotapi.NewMessage(chatID, text))
}

func (c *TelegramClient) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *domain.InlineKeyboard) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = toInlineMarkup(keyboard)
	}

	return c.send(ctx, chatID, msg)
}

func (c *TelegramClient) EditMessageText(ctx context.Context, chatID int64, messageID int64, text string, keyboard *domain.InlineKeyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, int(messageID), text)
	if keyboard != nil {
		markup := toInlineMarkup(keyboard)
		edit.ReplyMarkup = &markup
	}

	return c.send(ctx, chatID, edit)
}

func (c *TelegramClient) AnswerCallbackQuery(_ context.Context, callbackID string) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("ошибка при ответе на callback: %w", err)
	}

	return nil
}

func (c *TelegramClient) SetMyCommands(_ context.Context, commands []domain.BotCommand) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	botAPICommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, cmd := range commands {
		botAPICommands = append(botAPICommands, tgbotapi.BotCommand{
			Command:     cmd.Command,
			Description: cmd.Description,
		})
	}

	setCommandsConfig := tgbotapi.NewSetMyCommands(botAPICommands...)

	_, err := c.bot.Request(setCommandsConfig)
	if err != nil {
		return fmt.Errorf("ошибка при установке команд бота: %w", err)
	}

	return nil
}

func (c *TelegramClient) GetBot() *tgbotapi.BotAPI {
	return c.bot
}

func toInlineMarkup(keyboard *domain.InlineKeyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard.Rows))

	for _, row := range keyboard.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}

		rows = append(rows, buttons)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
