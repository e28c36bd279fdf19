package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "xmas_reminder"

	BotSubsystem = "bot"
)

// Бот метрики.
var (
	UserMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "user_messages_total",
			Help:      "Total number of user messages processed",
		},
		[]string{"chat_id", "message_type"},
	)

	RemindersSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "reminders_sent_total",
			Help:      "Total number of daily reminders sent",
		},
		[]string{"variant"},
	)

	RemindersThrottledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "reminders_throttled_total",
			Help:      "Total number of daily reminders suppressed by throttling",
		},
	)

	WhatsNewSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "whats_new_sent_total",
			Help:      "Total number of version update notifications sent",
		},
	)

	SendErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "send_errors_total",
			Help:      "Total number of Telegram send errors",
		},
	)
)

func RecordUserMessage(chatID, messageType string) {
	UserMessagesTotal.WithLabelValues(chatID, messageType).Inc()
}

func RecordReminderSent(variant string) {
	RemindersSentTotal.WithLabelValues(variant).Inc()
}

func RecordReminderThrottled() {
	RemindersThrottledTotal.Inc()
}

func RecordWhatsNewSent() {
	WhatsNewSentTotal.Inc()
}

func RecordSendError() {
	SendErrorsTotal.Inc()
}
