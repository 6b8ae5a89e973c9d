package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dannykhan02/Lenny-media-backend/internal/api/metrics"
)

// Metrics records request count and latency per registered route. Handler
// errors are rendered here through the echo error handler so the recorded
// status is the one the client sees.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
