package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-xmas-reminder/internal/common/metrics"
)

func TestRecordUserMessage(t *testing.T) {
	// Arrange
	chatID := "123456"
	messageType := "command"

	// Act
	metrics.RecordUserMessage(chatID, messageType)

	// Assert
	totalValue := testutil.ToFloat64(metrics.UserMessagesTotal.WithLabelValues(chatID, messageType))
	assert.Equal(t, float64(1), totalValue)
}

func TestRecordReminderSent(t *testing.T) {
	// Arrange
	variant := "christmas_day"
	initial := testutil.ToFloat64(metrics.RemindersSentTotal.WithLabelValues(variant))

	// Act
	metrics.RecordReminderSent(variant)

	// Assert
	final := testutil.ToFloat64(metrics.RemindersSentTotal.WithLabelValues(variant))
	assert.Equal(t, initial+1, final)
}

func TestRecordReminderThrottled(t *testing.T) {
	// Arrange
	initial := testutil.ToFloat64(metrics.RemindersThrottledTotal)

	// Act
	metrics.RecordReminderThrottled()

	// Assert
	final := testutil.ToFloat64(metrics.RemindersThrottledTotal)
	assert.Equal(t, initial+1, final)
}

func TestRecordWhatsNewSent(t *testing.T) {
	// Arrange
	initial := testutil.ToFloat64(metrics.WhatsNewSentTotal)

	// Act
	metrics.RecordWhatsNewSent()

	// Assert
	final := testutil.ToFloat64(metrics.WhatsNewSentTotal)
	assert.Equal(t, initial+1, final)
}

func TestRecordSendError(t *testing.T) {
	// Arrange
	initial := testutil.ToFloat64(metrics.SendErrorsTotal)

	// Act
	metrics.RecordSendError()

	// Assert
	final := testutil.ToFloat64(metrics.SendErrorsTotal)
	assert.Equal(t, initial+1, final)
}

func TestMetricsExist(t *testing.T) {
	// Arrange & Act & Assert
	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	metricNames := make(map[string]bool)
	for _, mf := range metricFamilies {
		metricNames[*mf.Name] = true
	}

	expectedMetrics := []string{
		"xmas_reminder_bot_user_messages_total",
		"xmas_reminder_bot_reminders_sent_total",
		"xmas_reminder_bot_reminders_throttled_total",
		"xmas_reminder_bot_whats_new_sent_total",
		"xmas_reminder_bot_send_errors_total",
	}

	for _, metricName := range expectedMetrics {
		assert.True(t, metricNames[metricName], "Метрика %s должна быть зарегистрирована", metricName)
	}
}
