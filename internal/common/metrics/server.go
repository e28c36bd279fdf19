package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// ReadinessProbe проверяет готовность зависимостей бота (база, кэш).
type ReadinessProbe func(ctx context.Context) error

// Server отдаёт метрики Prometheus и состояние бота.
// /health отвечает, пока жив процесс; /ready опрашивает зависимости.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	port       int
}

func NewServer(port int, ready ReadinessProbe, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(r.Context()); err != nil {
				logger.Warn("Проверка готовности не прошла", "error", err)
				http.Error(w, err.Error(), http.StatusServiceUnavailable)

				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: logger,
		port:   port,
	}
}

// Start блокируется до остановки сервера. Отмена ctx запускает graceful
// shutdown; таймаут остановки отсчитывается от фонового контекста, потому
// что сам ctx к этому моменту уже отменён.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Запуск сервера метрик",
		"port", s.port,
		"endpoint", "/metrics",
	)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Ошибка при остановке сервера метрик", "error", err)
			return
		}

		s.logger.Info("Сервер метрик успешно остановлен")
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ошибка запуска сервера метрик: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler возвращает HTTP-обработчик сервера (используется в тестах).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
