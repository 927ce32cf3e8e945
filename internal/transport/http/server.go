// Package http provides the HTTP server for the responder.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/config"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/service"
	v1 "github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/transport/http/v1"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/transport/ws"
)

// NewServer creates and configures the client-facing HTTP server: the REST
// API plus the websocket chat endpoint.
func NewServer(svc *service.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	wsServer := ws.NewServer(cfg, svc)

	// Register routes
	v1Handler.RegisterRoutes(e)
	e.GET("/v1/ws", wsServer.HandleWebSocket)

	return e
}
