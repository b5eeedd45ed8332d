package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the structured error body returned to callers. The
// message is always generic; backend errors never leak schema details.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Error sends an error response in the shared format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Success: false, Error: message})
}
