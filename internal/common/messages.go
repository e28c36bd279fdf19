package common

import (
	"fmt"
)

// Эмодзи, используемые в сообщениях бота.
const (
	EmojiAlarm   = "⏰"
	EmojiBlush   = "\U0001F60A"
	EmojiCookies = "\U0001F36A"
	EmojiGear    = "⚙"
	EmojiGrin    = "\U0001F604"
	EmojiPresent = "\U0001F381"
	EmojiRestart = "\U0001F7E2"
	EmojiSanta   = "\U0001F385"
	EmojiStop    = "\U0001F6D1"
	EmojiTada    = "\U0001F389"
	EmojiWave    = "\U0001F44B"
	EmojiWink    = "\U0001F609"
	EmojiXmas    = "\U0001F384"
)

// SantaSay оборачивает текст в фирменное приветствие Санты.
func SantaSay(text string) string {
	return EmojiSanta + " Хо-хо-хо!\n\n" + text
}

// RenderMessage превращает вариант сообщения в текст напоминания.
func RenderMessage(variant MessageVariant, diffDays int) string {
	defaultMessage := fmt.Sprintf("До Рождества %s осталось %d дн.", EmojiXmas, diffDays)

	switch variant {
	case VariantChristmasDay:
		return fmt.Sprintf("Счастливого Рождества %s", EmojiXmas)
	case VariantDayBefore:
		return fmt.Sprintf("Готовы к Рождеству %s? Подарки %s куплены? Завтра Рождество %s",
			EmojiXmas, EmojiPresent, EmojiBlush)
	case VariantDayAfter:
		return fmt.Sprintf("Сегодня всё ещё Рождество %s %s", EmojiXmas, EmojiTada)
	case VariantCookies:
		return fmt.Sprintf("Рождество %s продолжается, пока не закончилось рождественское печенье %s %s",
			EmojiXmas, EmojiCookies, EmojiWink)
	case VariantNewYear:
		return fmt.Sprintf("Новый год — новое Рождество %s! %s Да, и с Новым годом!", EmojiXmas, defaultMessage)
	case VariantDefault:
		return defaultMessage
	default:
		return defaultMessage
	}
}
