package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/agenda-api/config"
	"github.com/clinicore/agenda-api/internal/email"
	"github.com/clinicore/agenda-api/internal/repository/postgres"
	reminderService "github.com/clinicore/agenda-api/internal/service/reminder"
	"github.com/clinicore/agenda-api/pkg/logger"
	"github.com/clinicore/agenda-api/pkg/messaging/redis"
	"github.com/clinicore/agenda-api/pkg/metrics"
	"github.com/clinicore/agenda-api/pkg/worker"
)

// workerConfig is read from the environment. The worker deliberately
// skips the API's config file so it can run as a thin scheduled
// container with nothing mounted.
type workerConfig struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM"`

	ReminderWindow   time.Duration `envconfig:"REMINDER_WINDOW" default:"24h"`
	ReminderInterval time.Duration `envconfig:"REMINDER_INTERVAL" default:"15m"`

	MetricsPort int `envconfig:"METRICS_PORT" default:"9090"`
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.RedisURL}, &appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	emailSvc := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	workerMetrics := metrics.NewMetrics("agenda", "worker")
	appointmentRepo := postgres.NewAppointmentRepository(db, workerMetrics)
	reminderSvc := reminderService.NewService(appointmentRepo, broker, emailSvc, appLogger, workerMetrics, cfg.ReminderWindow)

	processor := worker.NewReminderProcessor(reminderSvc, appLogger, worker.ReminderProcessorConfig{
		Interval: cfg.ReminderInterval,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: mux,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start metrics server")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go processor.Start(ctx)

	appLogger.Info("reminder worker started", map[string]interface{}{
		"window":   cfg.ReminderWindow.String(),
		"interval": cfg.ReminderInterval.String(),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down reminder worker")
	processor.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
