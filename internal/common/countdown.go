package common

import (
	"time"
)

// ThrottleWindowDays задаёт, за сколько дней до Рождества напоминания
// становятся ежедневными. Вне этого окна отправляются только круглые отметки
// (кратные 50).
const ThrottleWindowDays = 50

type MessageVariant int

const (
	VariantDefault MessageVariant = iota
	VariantChristmasDay
	VariantDayBefore
	VariantDayAfter
	VariantCookies
	VariantNewYear
)

func (v MessageVariant) String() string {
	switch v {
	case VariantChristmasDay:
		return "christmas_day"
	case VariantDayBefore:
		return "day_before"
	case VariantDayAfter:
		return "day_after"
	case VariantCookies:
		return "cookies"
	case VariantNewYear:
		return "new_year"
	case VariantDefault:
		return "default"
	default:
		return "default"
	}
}

// DaysUntil возвращает число дней от today до Рождества (xmasDay декабря)
// текущего года. После праздника значение отрицательное: до конца года
// действует «ещё Рождество», перенос на следующий год не выполняется.
func DaysUntil(today time.Time, xmasDay int) int {
	xmas := time.Date(today.Year(), time.December, xmasDay, 0, 0, 0, 0, today.Location())
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	return int(xmas.Sub(midnight).Hours() / 24)
}

// IsNewYearsDay сообщает, является ли дата первым января.
func IsNewYearsDay(today time.Time) bool {
	return today.Month() == time.January && today.Day() == 1
}

// SelectMessage выбирает вариант сообщения для данного дня.
// Порядок проверок важен: первое совпадение выигрывает, правило Нового года
// применяется только если день не попал под правила 1-4.
func SelectMessage(diffDays int, isNewYearsDay bool) MessageVariant {
	switch {
	case diffDays == 0:
		return VariantChristmasDay
	case diffDays == 1:
		return VariantDayBefore
	case diffDays == -1:
		return VariantDayAfter
	case diffDays < -1:
		return VariantCookies
	case isNewYearsDay:
		return VariantNewYear
	default:
		return VariantDefault
	}
}

// ShouldSend реализует правило троттлинга: безусловная отправка первого января
// и в последние 50 дней перед Рождеством, иначе только на отметках, кратных 50.
// SelectMessage и ShouldSend независимы: день может получить вариант
// сообщения и при этом быть подавленным.
func ShouldSend(diffDays int, isNewYearsDay bool) bool {
	if isNewYearsDay {
		return true
	}

	if diffDays <= ThrottleWindowDays {
		return true
	}

	return diffDays%ThrottleWindowDays == 0
}
