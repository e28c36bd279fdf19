package domain

type BotCommand struct {
	Command     string
	Description string
}

type InlineButton struct {
	Text string
	Data string
}

type InlineKeyboard struct {
	Rows [][]InlineButton
}

// Reply описывает ответ сервиса на входящее событие: текст и, опционально,
// inline-клавиатура к нему.
type Reply struct {
	Text     string
	Keyboard *InlineKeyboard
}
