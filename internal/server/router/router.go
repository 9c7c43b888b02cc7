package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/server/handlers"
	"github.com/mamadbah2/ecotrack/internal/server/views"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups the HTTP handlers mounted on the engine. Webhook is nil
// when the chat channel is not configured.
type Handlers struct {
	Entries *handlers.EntryHandler
	Reports *handlers.ReportHandler
	Webhook *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.SetHTMLTemplate(views.Templates())

	r.GET("/", h.Reports.Dashboard)
	r.GET("/analytics", h.Reports.Analytics)
	r.GET("/charts/:file", h.Reports.Chart)
	r.GET("/export.xlsx", h.Reports.Export)

	entry := r.Group("/entry")
	entry.GET("/city", h.Entries.CityForm)
	entry.POST("/city", h.Entries.SubmitCity)
	entry.GET("/industry", h.Entries.IndustryForm)
	entry.POST("/industry", h.Entries.SubmitIndustry)

	api := r.Group("/api")
	api.POST("/cities", h.Entries.CreateCity)
	api.POST("/industry", h.Entries.CreateIndustry)
	api.GET("/daily", h.Reports.DailyJSON)
	api.GET("/analytics", h.Reports.AnalyticsJSON)

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	logger.Info("router initialized", zap.Bool("webhook", h.Webhook != nil))

	return r
}

// requestIDMiddleware keeps an inbound X-Request-ID or assigns a fresh one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handlers.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(handlers.RequestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		logger.Info("request completed", fields...)
	}
}
