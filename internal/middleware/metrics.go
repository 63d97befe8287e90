package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/metrics"
)

// Metrics records request count, duration and server errors per route.
func Metrics(m *metrics.AppMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if m != nil {
				status := c.Response().Status
				if err != nil {
					if he, ok := err.(*echo.HTTPError); ok {
						status = he.Code
					}
				}
				m.RecordRequest(c.Request().Context(), c.Request().Method, c.Path(), status, time.Since(start))
			}
			return err
		}
	}
}
