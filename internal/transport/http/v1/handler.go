// Package v1 provides the REST handlers for the responder.
package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Auth API
	e.POST("/v1/auth/login", h.Login)
	e.POST("/v1/auth/register", h.Register)

	// Chat history API
	e.GET("/v1/history", h.GetHistory)

	// Admin API
	e.POST("/v1/admin/reload", h.ReloadCatalog)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// authedUser resolves the bearer token on a request to its user.
func (h *Handler) authedUser(c echo.Context) (*domain.User, bool) {
	header := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return nil, false
	}
	return h.service.UserByToken(token)
}
