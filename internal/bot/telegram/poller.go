package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/central-university-dev/go-xmas-reminder/internal/bot/domain"
	"github.com/central-university-dev/go-xmas-reminder/internal/common/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	domainerrors "github.com/central-university-dev/go-xmas-reminder/internal/domain/errors"
	"github.com/central-university-dev/go-xmas-reminder/internal/domain/models"
)

type BotService interface {
	ProcessCommand(ctx context.Context, command *models.Command) (*domain.Reply, error)

	ProcessText(ctx context.Context, chatID int64, text string) (*domain.Reply, error)

	ProcessCallback(ctx context.Context, chatID int64, data string) (*domain.Reply, error)
}

type Poller struct {
	telegramClient domain.TelegramClientAPI
	botService     BotService
	logger         *slog.Logger
	updatesChan    tgbotapi.UpdatesChannel
	stopChan       chan struct{}
}

func NewPoller(telegramClient domain.TelegramClientAPI, botService BotService, logger *slog.Logger) *Poller {
	return &Poller{
		telegramClient: telegramClient,
		botService:     botService,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

func (p *Poller) Start() {
	p.logger.Info("Запуск Telegram поллера")

	bot := p.telegramClient.GetBot()
	if bot == nil {
		p.logger.Error("Не удалось получить доступ к API бота")
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	p.updatesChan = bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-p.stopChan:
				p.logger.Info("Получен сигнал остановки поллера")
				return
			case update := <-p.updatesChan:
				p.processUpdate(&update)
			}
		}
	}()
}

func (p *Poller) Close() error {
	p.logger.Info("Остановка Telegram поллера")
	close(p.stopChan)

	return nil
}

func (p *Poller) processUpdate(update *tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		p.processCallback(update.CallbackQuery)
	case update.Message != nil:
		p.processMessage(update.Message)
	}
}

func (p *Poller) processMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	text := message.Text
	username := message.From.UserName

	p.logger.Info("Получено сообщение",
		"chat_id", chatID,
		"user_id", userID,
		"text", text,
		"username", username,
	)

	messageType := "message"
	if message.IsCommand() {
		messageType = "command"
	}

	metrics.RecordUserMessage(strconv.FormatInt(chatID, 10), messageType)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reply *domain.Reply

	var err error

	if message.IsCommand() {
		command := &models.Command{
			ChatID:   chatID,
			UserID:   userID,
			Text:     text,
			Username: username,
			Type:     getCommandType("/" + message.Command()),
		}

		reply, err = p.botService.ProcessCommand(ctx, command)
	} else {
		reply, err = p.botService.ProcessText(ctx, chatID, text)
	}

	if err != nil {
		p.logger.Error("Ошибка при обработке сообщения",
			"error", err,
			"chat_id", chatID,
			"text", text,
		)

		reply = &domain.Reply{Text: errorText(err)}
	}

	p.sendReply(chatID, reply)
}

func (p *Poller) processCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	p.logger.Info("Получен callback",
		"chat_id", chatID,
		"data", data,
	)

	metrics.RecordUserMessage(strconv.FormatInt(chatID, 10), "callback")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.telegramClient.AnswerCallbackQuery(ctx, callback.ID); err != nil {
		p.logger.Error("Ошибка при подтверждении callback",
			"error", err,
			"chat_id", chatID,
		)
	}

	reply, err := p.botService.ProcessCallback(ctx, chatID, data)
	if err != nil {
		p.logger.Error("Ошибка при обработке callback",
			"error", err,
			"chat_id", chatID,
			"data", data,
		)

		reply = &domain.Reply{Text: errorText(err)}
	}

	// Ответ на кнопку заменяет сообщение с клавиатурой, чтобы не копить
	// устаревшие клавиатуры в чате.
	if reply != nil && reply.Text != "" {
		if err := p.telegramClient.EditMessageText(ctx, chatID, int64(callback.Message.MessageID), reply.Text, reply.Keyboard); err != nil {
			p.logger.Error("Ошибка при обновлении сообщения",
				"error", err,
				"chat_id", chatID,
			)

			p.sendReply(chatID, reply)
		}
	}
}

func (p *Poller) sendReply(chatID int64, reply *domain.Reply) {
	if reply == nil || reply.Text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error

	if reply.Keyboard != nil {
		err = p.telegramClient.SendMessageWithKeyboard(ctx, chatID, reply.Text, reply.Keyboard)
	} else {
		err = p.telegramClient.SendMessage(ctx, chatID, reply.Text)
	}

	if err != nil {
		p.logger.Error("Ошибка при отправке ответа",
			"error", err,
			"chat_id", chatID,
			"text", reply.Text,
		)
	}
}

func errorText(err error) string {
	if errors.Is(err, &domainerrors.ErrUnknownSetting{}) {
		return "Такой настройки я не знаю. Попробуйте ещё раз: /settings"
	}

	return "Произошла ошибка при обработке вашего сообщения. Пожалуйста, попробуйте позже."
}

func getCommandType(commandName string) models.CommandType {
	switch commandName {
	case "/start":
		return models.CommandStart
	case "/stop":
		return models.CommandStop
	case "/restart":
		return models.CommandRestart
	case "/settings":
		return models.CommandSettings
	case "/cancel":
		return models.CommandCancel
	case "/howlong":
		return models.CommandHowLong
	case "/help":
		return models.CommandHelp
	case "/about":
		return models.CommandAbout
	default:
		return models.CommandUnknown
	}
}
