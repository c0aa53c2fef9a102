package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/viper"
	"github.com/tifye/shopsim/assert"
	"golang.org/x/time/rate"
)

func registerRoutes(e *echo.Echo, logger *log.Logger, config *viper.Viper, deps *ServerDependencies) {
	assert.AssertNotNil(deps)
	assert.AssertNotNil(deps.Decisions)
	assert.AssertNotNil(deps.Snapshots)
	assert.AssertNotNil(deps.Feed)

	e.GET("/state", handleGetState(deps.Snapshots, deps.RunID))
	e.GET("/preview", handleGetPreview(deps.Decisions))
	e.GET("/ws", handleWebsocketConn(logger, deps.Feed))

	limiter := rate.NewLimiter(rate.Limit(config.GetFloat64("decision_rate")), 1)
	decisionMiddleware := []echo.MiddlewareFunc{rateLimitMiddleware(limiter)}
	if config.GetString("jwt_signing_key") != "" {
		decisionMiddleware = append(decisionMiddleware, requireAuthMiddleware(logger, config))
	}
	e.POST("/decision", handlePostDecision(logger, deps.Decisions), decisionMiddleware...)

	if config.GetString("otp_secret") != "" {
		e.GET("/token", handleGetToken(logger, config))
		e.POST("/token/verify", handlePostVerifyToken(logger, config))
	}

	if deps.Ledger != nil {
		c := cache.New(5*time.Second, time.Minute)
		e.GET("/runs", handleGetRuns(logger, deps.Ledger, c))
		e.GET("/runs/:id/days", handleGetRunDays(logger, deps.Ledger, c, deps.RunID))
	}
}
