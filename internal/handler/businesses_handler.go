package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lusohub/directory-api/internal/dto"
	"github.com/lusohub/directory-api/internal/repository"
	"github.com/lusohub/directory-api/internal/service"
)

// BusinessesHandler exposes the directory read endpoints.
type BusinessesHandler struct {
	service *service.DirectoryService
}

// NewBusinessesHandler creates a new handler instance.
func NewBusinessesHandler(service *service.DirectoryService) *BusinessesHandler {
	return &BusinessesHandler{service: service}
}

// Search handles GET /businesses requests.
func (h *BusinessesHandler) Search(c echo.Context) error {
	filter, err := parseSearchFilter(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Search(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("business search failed: %v", err)
		return Error(c, http.StatusInternalServerError, "failed to search businesses")
	}

	return c.JSON(http.StatusOK, result)
}

// Featured handles GET /businesses/featured requests.
func (h *BusinessesHandler) Featured(c echo.Context) error {
	businesses, err := h.service.Featured(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("featured businesses failed: %v", err)
		return Error(c, http.StatusInternalServerError, "failed to load featured businesses")
	}
	return c.JSON(http.StatusOK, map[string]any{"businesses": businesses})
}

// Categories handles GET /businesses/categories requests.
func (h *BusinessesHandler) Categories(c echo.Context) error {
	counts, err := h.service.Categories(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("category counts failed: %v", err)
		return Error(c, http.StatusInternalServerError, "failed to load categories")
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": counts})
}

// GetByID handles GET /businesses/:id requests.
func (h *BusinessesHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid business id")
	}

	business, err := h.service.BusinessByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return Error(c, http.StatusNotFound, "business not found")
		}
		c.Logger().Errorf("fetch business failed: %v", err)
		return Error(c, http.StatusInternalServerError, "failed to load business")
	}

	return c.JSON(http.StatusOK, business)
}

// parseSearchFilter decodes and validates the query string. Malformed
// criteria are rejected before the query builder runs.
func parseSearchFilter(c echo.Context) (dto.SearchFilter, error) {
	filter := dto.SearchFilter{
		Search:      strings.TrimSpace(c.QueryParam("search")),
		Categories:  splitCSV(c.QueryParam("category")),
		Regions:     splitCSV(c.QueryParam("region")),
		PriceRanges: splitCSV(c.QueryParam("priceRange")),
		SortBy:      strings.TrimSpace(c.QueryParam("sortBy")),
		OpenNow:     c.QueryParam("openNow") == "true",
		Limit:       parseIntDefault(c.QueryParam("limit"), 0),
		Offset:      parseIntDefault(c.QueryParam("offset"), 0),
	}

	if !filter.ValidSort() {
		return dto.SearchFilter{}, errors.New("invalid sortBy value")
	}

	lat, err := parseOptionalCoord(c.QueryParam("latitude"), -90, 90)
	if err != nil {
		return dto.SearchFilter{}, errors.New("invalid latitude")
	}
	lng, err := parseOptionalCoord(c.QueryParam("longitude"), -180, 180)
	if err != nil {
		return dto.SearchFilter{}, errors.New("invalid longitude")
	}
	if (lat == nil) != (lng == nil) {
		return dto.SearchFilter{}, errors.New("latitude and longitude must be supplied together")
	}
	filter.Latitude = lat
	filter.Longitude = lng

	if radiusStr := strings.TrimSpace(c.QueryParam("radius")); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			return dto.SearchFilter{}, errors.New("invalid radius")
		}
		filter.RadiusKm = &radius
	}

	return filter, nil
}

func parseOptionalCoord(input string, min, max float64) (*float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(input, 64)
	if err != nil || value < min || value > max {
		return nil, errors.New("out of range")
	}
	return &value, nil
}

func splitCSV(input string) []string {
	var values []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
