package pkg

import (
	"io"
	"log/slog"
)

func NewLogger(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, nil)
	return slog.New(handler)
}

// NewLoggerWithLevel создаёт логгер с заданным минимальным уровнем.
// Используется в тестах, чтобы не засорять вывод отладочными записями.
func NewLoggerWithLevel(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
