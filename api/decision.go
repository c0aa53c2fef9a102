package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/decision"
	"github.com/tifye/shopsim/shop"
)

// rawField accepts a JSON string or number, or a form value, and
// keeps its text for the engine to parse.
type rawField string

func (f *rawField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*f = rawField(s)
		return nil
	}
	if string(data) == "true" {
		*f = "1"
		return nil
	}
	if string(data) == "false" {
		*f = "0"
		return nil
	}
	*f = rawField(data)
	return nil
}

func (f *rawField) UnmarshalParam(param string) error {
	*f = rawField(param)
	return nil
}

type decisionRequest struct {
	TransferVolume   rawField `json:"transferVolume" form:"transferVolume"`
	TransferDecision rawField `json:"transferDecision" form:"transferDecision"`
	AcceptOffer      rawField `json:"acceptOffer" form:"acceptOffer"`
	AdSpend          rawField `json:"adSpend" form:"adSpend"`
	RetailPrice      rawField `json:"retailPrice" form:"retailPrice"`
	StopSell         rawField `json:"stopSell" form:"stopSell"`
}

func (r decisionRequest) raw() shop.RawDecision {
	return shop.RawDecision{
		TransferVolume:   string(r.TransferVolume),
		TransferDecision: string(r.TransferDecision),
		AcceptOffer:      string(r.AcceptOffer),
		AdSpend:          string(r.AdSpend),
		RetailPrice:      string(r.RetailPrice),
		StopSell:         string(r.StopSell),
	}
}

type fieldErrorResponse struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Error string `json:"error"`
}

func handlePostDecision(logger *log.Logger, decisions *decision.Remote) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(decisions)
	return func(c echo.Context) error {
		var req decisionRequest
		if err := c.Bind(&req); err != nil {
			return err
		}

		preview, waiting := decisions.Pending()

		err := decisions.Submit(c.Request().Context(), req.raw())
		var merr *shop.MalformedDecisionError
		switch {
		case err == nil:
		case errors.As(err, &merr):
			fields := make([]fieldErrorResponse, len(merr.Fields))
			for i, f := range merr.Fields {
				fields[i] = fieldErrorResponse{Field: f.Field, Value: f.Value, Error: f.Err.Error()}
			}
			return c.JSON(http.StatusBadRequest, map[string]any{"errors": fields})
		case errors.Is(err, decision.ErrClosed):
			return c.String(http.StatusGone, "simulation is over")
		default:
			logger.Warn("submit decision", "err", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}

		resp := map[string]any{"accepted": true}
		if waiting {
			resp["day"] = preview.Day
		}
		return c.JSON(http.StatusAccepted, resp)
	}
}
