// Package httpserve wires the purge endpoint into an echo server.
package httpserve

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bnema/regsweep/internal/httpserve/handlers"
)

// NewServer builds the echo instance serving the purge endpoint.
func NewServer(factory handlers.ClientFactory) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	h := handlers.NewPurgeHandler(factory)
	e.POST("/purge", h.PostPurge)
	e.GET("/healthz", handlers.GetHealth)

	return e
}
