package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	domainerrors "github.com/central-university-dev/go-xmas-reminder/internal/domain/errors"
)

// DailyPayload содержит неизменяемый контекст ежедневной задачи напоминания,
// зафиксированный в момент создания задачи.
type DailyPayload struct {
	ChatID  int64
	XmasDay int
}

// OncePayload содержит контекст одноразовой задачи (уведомление "что нового").
type OncePayload struct {
	ChatID int64
	Text   string
}

type DailyHandler func(payload DailyPayload)

type OnceHandler func(payload OncePayload)

// Одноразовые задачи живут в отдельном пространстве имён, чтобы не
// перетирать ежедневную задачу того же чата.
const oncePrefix = "once:"

type Scheduler struct {
	scheduler    *gocron.Scheduler
	logger       *slog.Logger
	mu           sync.Mutex
	dailyJobs    map[string]DailyPayload
	onceJobs     map[string]OncePayload
	dailyHandler DailyHandler
	onceHandler  OnceHandler
}

func NewScheduler(location *time.Location, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(location),
		logger:    logger,
		dailyJobs: make(map[string]DailyPayload),
		onceJobs:  make(map[string]OncePayload),
	}
}

// OnDaily регистрирует обработчик срабатывания ежедневных задач.
// Ошибки обработчика остаются заботой вызывающего слоя, планировщик задачу не снимает.
func (s *Scheduler) OnDaily(handler DailyHandler) {
	s.dailyHandler = handler
}

// OnOnce регистрирует обработчик срабатывания одноразовых задач.
func (s *Scheduler) OnOnce(handler OnceHandler) {
	s.onceHandler = handler
}

// ScheduleDaily устанавливает ежедневную задачу с запуском в указанное
// локальное время. Если задача с таким ключом уже есть, возвращается ошибка,
// для замены предназначен ReplaceDaily.
func (s *Scheduler) ScheduleDaily(key string, hour, minute int, payload DailyPayload) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("некорректное время запуска задачи %q: %02d:%02d", key, hour, minute)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.dailyJobs[key]; exists {
		return &domainerrors.ErrJobAlreadyExists{Key: key}
	}

	at := fmt.Sprintf("%02d:%02d", hour, minute)

	_, err := s.scheduler.Every(1).Day().At(at).Tag(key).Do(func() {
		s.fireDaily(key)
	})
	if err != nil {
		return fmt.Errorf("ошибка при создании ежедневной задачи %q: %w", key, err)
	}

	s.dailyJobs[key] = payload

	s.logger.Info("Ежедневная задача установлена",
		"key", key,
		"at", at,
	)

	return nil
}

// ReplaceDaily атомарно снимает существующую задачу под ключом и ставит
// новую. Повторный вызов с теми же аргументами оставляет ровно одну задачу.
func (s *Scheduler) ReplaceDaily(key string, hour, minute int, payload DailyPayload) error {
	s.Cancel(key)
	return s.ScheduleDaily(key, hour, minute, payload)
}

// Cancel снимает ежедневную задачу под ключом, если она есть.
// После возврата задача гарантированно больше не сработает.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.dailyJobs[key]; !exists {
		return false
	}

	delete(s.dailyJobs, key)
	_ = s.scheduler.RemoveByTag(key)

	s.logger.Info("Ежедневная задача снята",
		"key", key,
	)

	return true
}

// Exists сообщает, есть ли активная ежедневная задача под ключом.
func (s *Scheduler) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.dailyJobs[key]

	return exists
}

// ScheduleOnce устанавливает одноразовую задачу с задержкой delay.
// После срабатывания задача удаляет себя сама.
func (s *Scheduler) ScheduleOnce(key string, delay time.Duration, payload OncePayload) error {
	tag := oncePrefix + key

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.onceJobs[tag]; exists {
		return &domainerrors.ErrJobAlreadyExists{Key: tag}
	}

	_, err := s.scheduler.Every(delay).LimitRunsTo(1).Tag(tag).Do(func() {
		s.fireOnce(tag)
	})
	if err != nil {
		return fmt.Errorf("ошибка при создании одноразовой задачи %q: %w", tag, err)
	}

	s.onceJobs[tag] = payload

	s.logger.Info("Одноразовая задача установлена",
		"key", tag,
		"delay", delay.String(),
	)

	return nil
}

func (s *Scheduler) Start() {
	s.logger.Info("Запуск планировщика")
	s.scheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	s.logger.Info("Остановка планировщика")
	s.scheduler.Stop()
}

// fireDaily перечитывает полезную нагрузку под блокировкой: если задачу
// успели снять между срабатыванием таймера и диспетчеризацией, вызов
// обработчика не происходит.
func (s *Scheduler) fireDaily(key string) {
	s.mu.Lock()
	payload, exists := s.dailyJobs[key]
	handler := s.dailyHandler
	s.mu.Unlock()

	if !exists || handler == nil {
		return
	}

	handler(payload)
}

func (s *Scheduler) fireOnce(tag string) {
	s.mu.Lock()
	payload, exists := s.onceJobs[tag]
	handler := s.onceHandler
	delete(s.onceJobs, tag)
	_ = s.scheduler.RemoveByTag(tag)
	s.mu.Unlock()

	if !exists || handler == nil {
		return
	}

	handler(payload)
}
