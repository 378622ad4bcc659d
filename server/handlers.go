package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ZaguanLabs/relay"
)

// Handler serves the API endpoints.
type Handler struct {
	translator Translator
	completer  Completer
	providers  ProviderReporter
	logger     *zap.Logger
	timeout    time.Duration
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CompleteRequest is the body of POST /api/ai.
type CompleteRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// CompleteResponse is the response of POST /api/ai.
type CompleteResponse struct {
	Message  string `json:"message"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// HealthResponse is the response of GET /health.
type HealthResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version"`
	Providers map[string]int `json:"providers,omitempty"`
}

// Translate handles POST /api/translate.
func (h *Handler) Translate(c *gin.Context) {
	var req relay.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.translator.Translate(ctx, req)
	if err != nil {
		h.respondFailure(c, "translation failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Complete handles POST /api/ai.
func (h *Handler) Complete(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		h.respondError(c, http.StatusBadRequest, "prompt is required", "")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	completion, err := h.completer.Complete(ctx, req.Prompt, req.Model)
	if err != nil {
		h.respondFailure(c, "all AI providers failed", err)
		return
	}

	c.JSON(http.StatusOK, CompleteResponse{
		Message:  completion.Text,
		Provider: completion.Provider,
		Model:    completion.Model,
	})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Version: relay.FullVersion()}
	if h.providers != nil {
		resp.Providers = h.providers.CredentialCounts()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.timeout)
	}
	return context.WithCancel(c.Request.Context())
}

// respondFailure maps an error from the core onto a status code.
func (h *Handler) respondFailure(c *gin.Context, message string, err error) {
	status := relay.CodeOf(err).HTTPStatus()
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}

	var verr *relay.ValidationError
	if errors.As(err, &verr) {
		message = verr.Error()
	}

	h.logger.Warn("request failed",
		zap.String("request_id", c.GetString("request_id")),
		zap.Int("status", status),
		zap.Error(err),
	)
	h.respondError(c, status, message, err.Error())
}

func (h *Handler) respondError(c *gin.Context, status int, message, details string) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}
