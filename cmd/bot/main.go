package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/central-university-dev/go-xmas-reminder/internal/bot/cache"
	"github.com/central-university-dev/go-xmas-reminder/internal/bot/clients"
	"github.com/central-university-dev/go-xmas-reminder/internal/bot/domain"
	"github.com/central-university-dev/go-xmas-reminder/internal/bot/repository"
	botservice "github.com/central-university-dev/go-xmas-reminder/internal/bot/service"
	"github.com/central-university-dev/go-xmas-reminder/internal/bot/telegram"
	"github.com/central-university-dev/go-xmas-reminder/internal/common/metrics"
	"github.com/central-university-dev/go-xmas-reminder/internal/config"
	"github.com/central-university-dev/go-xmas-reminder/internal/database"
	"github.com/central-university-dev/go-xmas-reminder/internal/scheduler"
	"github.com/central-university-dev/go-xmas-reminder/pkg"
	"github.com/central-university-dev/go-xmas-reminder/pkg/txs"
)

func gracefulShutdown(poller *telegram.Poller, jobScheduler *scheduler.Scheduler,
	redisCache *cache.RedisSettingsCache, metricsCancel context.CancelFunc,
	stopCh <-chan struct{}, appLogger *slog.Logger) {
	<-stopCh
	appLogger.Info("Получен сигнал завершения")

	if err := poller.Close(); err != nil {
		appLogger.Error("Ошибка при остановке поллера",
			"error", err,
		)
	}

	jobScheduler.Stop()

	metricsCancel()

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии соединения с Redis",
				"error", err,
			)
		}
	}

	appLogger.Info("Сервис успешно остановлен")
}

func setupTelegramCommands(telegramClient domain.TelegramClientAPI, appLogger *slog.Logger) {
	ctx := context.Background()
	if err := telegramClient.SetMyCommands(ctx, botservice.BotCommands()); err != nil {
		appLogger.Error("Ошибка при регистрации команд бота",
			"error", err,
		)
	} else {
		appLogger.Info("Команды бота успешно зарегистрированы")
	}
}

func watchSignals(stopCh chan<- struct{}, appLogger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLogger.Info("Получен системный сигнал",
			"signal", sig.String(),
		)
		close(stopCh)
	}()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка запуска сервиса: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen // Длина функции обусловлена необходимостью последовательной инициализации всех компонентов.
func run() error {
	appLogger := pkg.NewLogger(os.Stdout)

	cfg := config.LoadConfig()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		appLogger.Error("Ошибка при загрузке часового пояса",
			"error", err,
			"timezone", cfg.Timezone,
		)

		return fmt.Errorf("ошибка загрузки часового пояса: %w", err)
	}

	ctx := context.Background()

	db, err := database.NewPostgresDB(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Ошибка при подключении к базе данных",
			"error", err,
		)

		return fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	defer db.Close()

	if err := database.RunMigrations(cfg, appLogger); err != nil {
		appLogger.Error("Ошибка при применении миграций",
			"error", err,
		)

		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	txManager := txs.NewTxManager(db.Pool, appLogger)

	repoFactory := repository.NewFactory(db, cfg, appLogger)

	settingsRepoBase, err := repoFactory.CreateChatSettingsRepository()
	if err != nil {
		appLogger.Error("Ошибка при создании репозитория настроек чатов",
			"error", err,
		)

		return fmt.Errorf("ошибка создания репозитория настроек чатов: %w", err)
	}

	chatStateRepo, err := repoFactory.CreateChatStateRepository()
	if err != nil {
		appLogger.Error("Ошибка при создании репозитория состояний чата",
			"error", err,
		)

		return fmt.Errorf("ошибка создания репозитория состояний чата: %w", err)
	}

	settingsRepo := settingsRepoBase

	var redisCache *cache.RedisSettingsCache

	if cfg.RedisURL != "" {
		cacheTTL := cfg.RedisCacheTTL
		if cacheTTL <= 0 {
			cacheTTL = 30 * time.Minute
		}

		redisCache, err = cache.NewRedisSettingsCache(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, cacheTTL, appLogger)
		if err != nil {
			appLogger.Error("Ошибка при подключении к Redis",
				"error", err,
			)
		} else {
			appLogger.Info("Кэш Redis успешно инициализирован")

			settingsRepo = repository.NewCachedChatSettingsRepository(settingsRepoBase, redisCache, appLogger)
		}
	}

	telegramClient := clients.NewTelegramClient(cfg.TelegramBotToken, cfg.TelegramSendRate, appLogger)
	setupTelegramCommands(telegramClient, appLogger)

	jobScheduler := scheduler.NewScheduler(location, appLogger)

	reminderService := botservice.NewReminderService(settingsRepo, jobScheduler, telegramClient, location, appLogger)

	jobScheduler.OnDaily(reminderService.HandleDailyFire)
	jobScheduler.OnOnce(reminderService.HandleOnceFire)

	versionNotifier := botservice.NewVersionNotifier(settingsRepo, jobScheduler, cfg.WhatsNewDelay, appLogger)

	botService := botservice.NewBotService(settingsRepo, chatStateRepo, reminderService, txManager, location, appLogger)

	poller := telegram.NewPoller(telegramClient, botService, appLogger)

	metricsServer := metrics.NewServer(cfg.BotMetricsPort, func(ctx context.Context) error {
		return db.Pool.Ping(ctx)
	}, appLogger)
	metricsCtx, metricsCancel := context.WithCancel(ctx)

	defer metricsCancel()

	go func() {
		if err := metricsServer.Start(metricsCtx); err != nil {
			appLogger.Error("Ошибка при запуске сервера метрик",
				"error", err,
			)
		}
	}()

	jobScheduler.Start()

	// Порядок запуска фиксирован: сначала восстановление задач из хранилища,
	// затем уведомления о новой версии и только после этого приём событий.
	if err := reminderService.RestoreJobs(ctx); err != nil {
		appLogger.Error("Ошибка при восстановлении задач напоминаний",
			"error", err,
		)

		return fmt.Errorf("ошибка восстановления задач напоминаний: %w", err)
	}

	if err := versionNotifier.NotifyUpdatedChats(ctx); err != nil {
		appLogger.Error("Ошибка при проверке версий чатов",
			"error", err,
		)
	}

	poller.Start()

	stopCh := make(chan struct{})

	watchSignals(stopCh, appLogger)
	gracefulShutdown(poller, jobScheduler, redisCache, metricsCancel, stopCh, appLogger)

	return nil
}
