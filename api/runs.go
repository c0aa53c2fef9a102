package api

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/storage"
)

const (
	useDefaultCacheTime = -1
	defaultRunsLimit    = 20
	maxRunsLimit        = 200
)

type runResponse struct {
	storage.Run
	FinishedAt   *int64   `json:"finishedAt,omitempty"`
	FinalAccount *float64 `json:"finalAccount,omitempty"`
}

func toRunResponse(r storage.Run) runResponse {
	resp := runResponse{Run: r}
	if r.FinishedAt.Valid {
		resp.FinishedAt = &r.FinishedAt.Int64
	}
	if r.FinalAccount.Valid {
		resp.FinalAccount = &r.FinalAccount.Float64
	}
	return resp
}

func handleGetRuns(logger *log.Logger, ledger *storage.Ledger, c *cache.Cache) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(ledger)
	assert.AssertNotNil(c)

	type request struct {
		Limit int `query:"limit"`
	}
	return func(ec echo.Context) error {
		var req request
		if err := ec.Bind(&req); err != nil {
			return err
		}
		limit := req.Limit
		if limit <= 0 {
			limit = defaultRunsLimit
		}
		limit = min(limit, maxRunsLimit)

		key := "runs-" + strconv.Itoa(limit)
		if cached, ok := c.Get(key); ok {
			return ec.JSON(http.StatusOK, cached)
		}

		runs, err := ledger.Runs(ec.Request().Context(), limit)
		if err != nil {
			logger.Error("list runs", "err", err)
			return ec.NoContent(http.StatusInternalServerError)
		}

		resp := make([]runResponse, len(runs))
		for i, r := range runs {
			resp[i] = toRunResponse(r)
		}
		c.Set(key, resp, useDefaultCacheTime)
		return ec.JSON(http.StatusOK, resp)
	}
}

// handleGetRunDays lists the days of a run. Days of liveRunID are
// still being written, so they are never cached.
func handleGetRunDays(logger *log.Logger, ledger *storage.Ledger, c *cache.Cache, liveRunID string) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(ledger)
	assert.AssertNotNil(c)

	type request struct {
		ID string `param:"id"`
	}
	return func(ec echo.Context) error {
		var req request
		if err := ec.Bind(&req); err != nil {
			return err
		}

		live := req.ID == liveRunID
		key := "days-" + req.ID
		if cached, ok := c.Get(key); ok && !live {
			return ec.JSON(http.StatusOK, cached)
		}

		days, err := ledger.Days(ec.Request().Context(), req.ID)
		if err != nil {
			logger.Error("list days", "run", req.ID, "err", err)
			return ec.NoContent(http.StatusInternalServerError)
		}
		if len(days) == 0 {
			return ec.NoContent(http.StatusNotFound)
		}

		if !live {
			c.Set(key, days, useDefaultCacheTime)
		}
		return ec.JSON(http.StatusOK, days)
	}
}
