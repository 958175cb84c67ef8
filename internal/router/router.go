package router

import (
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/careops/clinic-api/internal/config"
	adminHandler "github.com/careops/clinic-api/internal/handler/admin"
	appointmentHandler "github.com/careops/clinic-api/internal/handler/appointment"
	messageHandler "github.com/careops/clinic-api/internal/handler/message"
	registrationHandler "github.com/careops/clinic-api/internal/handler/registration"
	"github.com/careops/clinic-api/internal/middleware"
	"github.com/careops/clinic-api/pkg/metrics"
)

type Handlers struct {
	Admin        *adminHandler.Handler
	Appointment  *appointmentHandler.Handler
	Message      *messageHandler.Handler
	Registration *registrationHandler.Handler
}

func New(cfg *config.Config, auth *middleware.AuthMiddleware, m *metrics.Metrics, handlers Handlers) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(metricsMiddleware(m))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})

	api := r.Group("/api/v1")
	api.Use(limiter.RateLimit())
	api.Use(auth.Authenticate())

	handlers.Appointment.RegisterRoutes(api)
	handlers.Message.RegisterRoutes(api)
	handlers.Registration.RegisterRoutes(api)
	handlers.Admin.RegisterRoutes(api)

	return r
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			m.ErrorTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		}
	}
}
