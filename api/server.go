package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
	"github.com/tifye/shopsim/decision"
	"github.com/tifye/shopsim/storage"
	"github.com/tifye/shopsim/stream"
)

type ServerDependencies struct {
	Decisions *decision.Remote
	Snapshots *Snapshots
	Feed      *stream.Feed
	// Ledger is nil when no database is configured.
	Ledger *storage.Ledger
	RunID  string
}

func NewServer(logger *log.Logger, config *viper.Viper, deps *ServerDependencies) *http.Server {
	e := echo.New()
	e.HideBanner = true
	server := &http.Server{
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       25 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		ErrorLog:          logger.StandardLog(),
		MaxHeaderBytes:    1024,
	}

	registerRoutes(e, logger, config, deps)

	return server
}
