package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clinicore/agenda-api/internal/handler"
	appointmenthandler "github.com/clinicore/agenda-api/internal/handler/appointment"
	blockedtimehandler "github.com/clinicore/agenda-api/internal/handler/blockedtime"
	calendarhandler "github.com/clinicore/agenda-api/internal/handler/calendar"
	doctorhandler "github.com/clinicore/agenda-api/internal/handler/doctor"
	reminderhandler "github.com/clinicore/agenda-api/internal/handler/reminder"
	"github.com/clinicore/agenda-api/internal/middleware"
	"github.com/clinicore/agenda-api/internal/model"
	"github.com/clinicore/agenda-api/pkg/logger"
)

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	appointmentH *appointmenthandler.Handler
	blockedH     *blockedtimehandler.Handler
	calendarH    *calendarhandler.Handler
	doctorH      *doctorhandler.Handler
	reminderH    *reminderhandler.Handler
	h            *handler.Handler
	metrics      *routerMetrics
}

type RouterConfig struct {
	RateLimitRPS  float64
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
	// Registry receives the router's request metrics. Nil skips
	// registration, which keeps repeated construction in tests safe.
	Registry prometheus.Registerer
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	appointmentH *appointmenthandler.Handler,
	blockedH *blockedtimehandler.Handler,
	calendarH *calendarhandler.Handler,
	doctorH *doctorhandler.Handler,
	reminderH *reminderhandler.Handler,
	h *handler.Handler,
	log *logger.Logger,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		model.RegisterValidations(v)
	}

	r := &Router{
		engine:       engine,
		auth:         auth,
		appointmentH: appointmentH,
		blockedH:     blockedH,
		calendarH:    calendarH,
		doctorH:      doctorH,
		reminderH:    reminderH,
		h:            h,
		metrics:      initRouterMetrics(config.MetricsPrefix, config.Registry),
	}

	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimitRPS > 0 {
		rateLimiter := middleware.NewRateLimiter(config.RateLimitRPS, config.RateBurst)
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	appointments := rg.Group("/appointments")
	{
		appointments.POST("", r.appointmentH.CreateAppointment)
		appointments.GET("", r.appointmentH.ListAppointments)
		appointments.GET("/:id", r.appointmentH.GetAppointment)
		appointments.DELETE("/:id", r.appointmentH.CancelAppointment)
	}

	rg.POST("/blocked-times", r.blockedH.CreateBlockedTime)

	rg.GET("/doctors", r.doctorH.ListDoctors)

	calendar := rg.Group("/calendar")
	calendar.Use(middleware.Cache(middleware.DefaultCacheConfig()))
	{
		calendar.GET("/week", r.calendarH.GetWeek)
	}

	rg.GET("/reminders/upcoming", r.reminderH.ListUpcoming)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string, reg prometheus.Registerer) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	}
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
