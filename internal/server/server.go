package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/piwi3910/LotLayout/internal/config"
)

// New builds the Echo instance with middleware and every route registered.
func New(cfg *config.Config, h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			e.Logger.Infof("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.BodyLimit("8M"))

	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.POST("/dimensions", h.ParseDimensions)
	api.POST("/layouts", h.CreateLayout)
	api.POST("/layouts/compare", h.CompareLayouts)
	api.POST("/layouts/preview", h.PreviewLayout)
	api.POST("/layouts/audit", h.AuditLayout)
	api.POST("/layouts/publish", h.PublishLayout)
	api.GET("/publications/:id", h.GetPublication)

	return e
}
