package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"task-tracker/internal/bot"
	"task-tracker/internal/config"
	"task-tracker/internal/controller"
	"task-tracker/internal/flash"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
	"task-tracker/internal/taskform"
	"task-tracker/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()

	userRepo := repository.NewUserRepository(db)
	typeRepo := repository.NewTaskTypeRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	if _, err := userRepo.EnsureOwner(ctx, cfg.OwnerUserID); err != nil {
		log.Fatalf("owner: %v", err)
	}
	typeSvc := service.NewTaskTypeService(typeRepo)
	if err := typeSvc.EnsureDefaults(ctx); err != nil {
		log.Fatalf("task types: %v", err)
	}
	taskSvc, err := service.New(taskRepo)
	if err != nil {
		log.Fatalf("task service: %v", err)
	}
	ctrl := controller.New(taskSvc, typeSvc, taskform.Mapper{OwnerID: cfg.OwnerUserID})

	notices, closeFlash := newFlashStore(ctx, cfg)
	defer closeFlash()

	e := web.New(ctrl, notices, sqlDB, log.StandardLogger())
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	if cfg.BotEnabled() {
		digest := service.NewDigestService(taskSvc)
		telegramBot, err := bot.New(cfg.TelegramToken, ctrl, typeSvc, digest, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}

		if cfg.TelegramChatID != 0 {
			scheduler := service.NewSchedulerService(time.Local, digest, telegramBot)
			if _, err := scheduler.ScheduleDigest(cfg.DigestTime); err != nil {
				log.Fatalf("schedule digest: %v", err)
			}
			scheduler.Start()
			defer scheduler.Stop()
		} else {
			log.Warn("TELEGRAM_CHAT_ID is not set, daily digest disabled")
		}

		go func() {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("bot stopped")
			}
		}()
	}

	log.Info("task tracker started")
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	log.Info("shutdown complete")
}

// newFlashStore prefers Redis when REDIS_URL is set.
func newFlashStore(ctx context.Context, cfg config.Config) (flash.Store, func()) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL is not set, flash notices kept in memory")
		return flash.NewMemoryStore(cfg.FlashTTL), func() {}
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}
	return flash.NewRedisStore(client, cfg.FlashTTL), func() { _ = client.Close() }
}
