package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lusohub/directory-api/internal/service"
)

// AreasHandler exposes the region suggestion endpoint.
type AreasHandler struct {
	service *service.SuggestService
}

// NewAreasHandler creates a new handler instance.
func NewAreasHandler(service *service.SuggestService) *AreasHandler {
	return &AreasHandler{service: service}
}

// Suggest handles GET /areas/suggest requests.
func (h *AreasHandler) Suggest(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(c.QueryParam("lat")), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(c.QueryParam("lng")), 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Error(c, http.StatusBadRequest, "lat and lng are required coordinates")
	}

	suggestions, err := h.service.Suggest(c.Request().Context(), lat, lng)
	if err != nil {
		c.Logger().Errorf("area suggestion failed: %v", err)
		return Error(c, http.StatusInternalServerError, "failed to suggest areas")
	}

	return c.JSON(http.StatusOK, map[string]any{"suggestions": suggestions})
}
