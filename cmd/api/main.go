package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/agenda-api/config"
	"github.com/clinicore/agenda-api/internal/email"
	"github.com/clinicore/agenda-api/internal/handler"
	appointmentHandler "github.com/clinicore/agenda-api/internal/handler/appointment"
	blockedtimeHandler "github.com/clinicore/agenda-api/internal/handler/blockedtime"
	calendarHandler "github.com/clinicore/agenda-api/internal/handler/calendar"
	doctorHandler "github.com/clinicore/agenda-api/internal/handler/doctor"
	reminderHandler "github.com/clinicore/agenda-api/internal/handler/reminder"
	"github.com/clinicore/agenda-api/internal/middleware"
	"github.com/clinicore/agenda-api/internal/repository/postgres"
	"github.com/clinicore/agenda-api/internal/router"
	availabilityService "github.com/clinicore/agenda-api/internal/service/availability"
	bookingService "github.com/clinicore/agenda-api/internal/service/booking"
	calendarService "github.com/clinicore/agenda-api/internal/service/calendar"
	reminderService "github.com/clinicore/agenda-api/internal/service/reminder"
	"github.com/clinicore/agenda-api/pkg/auth"
	"github.com/clinicore/agenda-api/pkg/logger"
	"github.com/clinicore/agenda-api/pkg/messaging/redis"
	"github.com/clinicore/agenda-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	appMetrics := metrics.NewMetrics("agenda", "api")

	appointmentRepo := postgres.NewAppointmentRepository(db, appMetrics)
	blockedTimeRepo := postgres.NewBlockedTimeRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	emailSvc := email.NewService(cfg.SMTP.ToEmailConfig())

	availabilitySvc := availabilityService.NewService(appointmentRepo, blockedTimeRepo)
	bookingSvc := bookingService.NewService(appointmentRepo, blockedTimeRepo, availabilitySvc, appLogger, appMetrics)
	calendarSvc := calendarService.NewService(appointmentRepo, blockedTimeRepo)
	reminderSvc := reminderService.NewService(appointmentRepo, broker, emailSvc, appLogger, appMetrics, cfg.Reminder.Window)

	tokenSvc := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc, doctorRepo)

	h := handler.NewHandler()
	r := router.NewRouter(
		authMiddleware,
		appointmentHandler.NewHandler(bookingSvc),
		blockedtimeHandler.NewHandler(bookingSvc),
		calendarHandler.NewHandler(calendarSvc),
		doctorHandler.NewHandler(doctorRepo),
		reminderHandler.NewHandler(reminderSvc),
		h,
		appLogger,
		router.RouterConfig{
			RateLimitRPS:  rateLimitRPS(cfg),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    corsConfig(cfg),
			MetricsPrefix: "agenda_api",
			Registry:      prometheus.DefaultRegisterer,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("starting server", map[string]interface{}{"port": cfg.Server.Port})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}

func rateLimitRPS(cfg *config.Config) float64 {
	if !cfg.RateLimit.Enabled {
		return 0
	}
	return cfg.RateLimit.RequestsPerSecond
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Security.AllowedOrigins
	}
	return corsCfg
}
