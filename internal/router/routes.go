package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lusohub/directory-api/internal/config"
	"github.com/lusohub/directory-api/internal/handler"
	middlewarepkg "github.com/lusohub/directory-api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Businesses *handler.BusinessesHandler
	Areas      *handler.AreasHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
	})

	e.GET("/businesses", handlers.Businesses.Search, middlewarepkg.SearchRateLimiter(cfg.RateLimitSearch))
	e.GET("/businesses/featured", handlers.Businesses.Featured)
	e.GET("/businesses/categories", handlers.Businesses.Categories)
	e.GET("/businesses/:id", handlers.Businesses.GetByID)

	e.GET("/areas/suggest", handlers.Areas.Suggest)
}
