package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tifye/shopsim/assert"
	"golang.org/x/time/rate"
)

func rateLimitMiddleware(limiter *rate.Limiter) echo.MiddlewareFunc {
	assert.AssertNotNil(limiter)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return c.NoContent(http.StatusTooManyRequests)
			}
			return next(c)
		}
	}
}
