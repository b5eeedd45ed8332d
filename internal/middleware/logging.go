package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes one line per request. The raw query is included because
// search criteria arrive as query parameters and are the main thing worth
// seeing when a request misbehaves.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			rid, _ := c.Get(ContextKeyRequestID).(string)
			log.Printf("request_id=%s method=%s path=%s query=%q status=%d latency=%s",
				rid, c.Request().Method, c.Request().URL.Path, c.Request().URL.RawQuery, c.Response().Status, latency)

			return err
		}
	}
}
