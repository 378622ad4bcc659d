// Package server exposes the translation and completion paths over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZaguanLabs/relay"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// Translator translates documents.
type Translator interface {
	Translate(ctx context.Context, req relay.Request) (*relay.Result, error)
}

// Completer answers single prompts.
type Completer interface {
	Complete(ctx context.Context, prompt, capability string) (*relay.Completion, error)
}

// ProviderReporter reports configured credential counts per provider.
type ProviderReporter interface {
	CredentialCounts() map[string]int
}

// Options configures the router.
type Options struct {
	Translator     Translator
	Completer      Completer
	Providers      ProviderReporter
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

// New creates a new router with all routes configured.
func New(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	// Middleware
	r.Use(requestID())
	r.Use(ginLogger(logger))
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	h := &Handler{
		translator: opts.Translator,
		completer:  opts.Completer,
		providers:  opts.Providers,
		logger:     logger,
		timeout:    opts.RequestTimeout,
	}

	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/translate", h.Translate)
		api.POST("/ai", h.Complete)
	}

	return r
}

// requestID assigns every request an id, keeping one supplied by the client.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// ginLogger is a custom logger middleware.
func ginLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
