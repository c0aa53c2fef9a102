package shop

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tifye/shopsim/assert"
)

// Decision is what the player chooses for a single day.
type Decision struct {
	TransferVolume   float64 `json:"transferVolume"`
	TransferDecision bool    `json:"transferDecision"`
	AcceptOffer      bool    `json:"acceptOffer"`
	AdSpend          float64 `json:"adSpend"`
	RetailPrice      float64 `json:"retailPrice"`
	StopSell         bool    `json:"stopSell"`
}

// RawDecision is a decision as typed by the player, in the order
// the fields are asked for. Flags are integers, 0 meaning no.
type RawDecision struct {
	TransferVolume   string `json:"transferVolume" yaml:"transferVolume"`
	TransferDecision string `json:"transferDecision" yaml:"transferDecision"`
	AcceptOffer      string `json:"acceptOffer" yaml:"acceptOffer"`
	AdSpend          string `json:"adSpend" yaml:"adSpend"`
	RetailPrice      string `json:"retailPrice" yaml:"retailPrice"`
	StopSell         string `json:"stopSell" yaml:"stopSell"`
}

var (
	errNotANumber  = errors.New("not a number")
	errNotAFlag    = errors.New("not an integer flag")
	errNegative    = errors.New("must not be negative")
	errNotPositive = errors.New("must be positive")
)

// DecisionFields names the fields of a RawDecision in the order
// they are asked for.
var DecisionFields = [...]string{
	"transferVolume",
	"transferDecision",
	"acceptOffer",
	"adSpend",
	"retailPrice",
	"stopSell",
}

func parseNumber(value string, positive bool) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	switch {
	case err != nil || math.IsNaN(v) || math.IsInf(v, 0):
		return 0, errNotANumber
	case positive && v <= 0:
		return 0, errNotPositive
	case v < 0:
		return 0, errNegative
	}
	return v, nil
}

func parseFlag(value string) (bool, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return false, errNotAFlag
	}
	return v != 0, nil
}

// CheckField validates the i-th field of a RawDecision on its own,
// so input can be rejected as soon as one answer is bad.
func CheckField(i int, value string) error {
	assert.Assert(i >= 0 && i < len(DecisionFields), "decision field index out of range")

	var err error
	switch DecisionFields[i] {
	case "transferVolume", "adSpend":
		_, err = parseNumber(value, false)
	case "retailPrice":
		_, err = parseNumber(value, true)
	default:
		_, err = parseFlag(value)
	}
	if err != nil {
		return &MalformedDecisionError{Fields: []FieldError{{Field: DecisionFields[i], Value: value, Err: err}}}
	}
	return nil
}

// ParseDecision converts raw input into a Decision. Every field is
// checked and all failures are reported together in a
// *MalformedDecisionError.
func ParseDecision(raw RawDecision) (Decision, error) {
	var (
		d    Decision
		errs []FieldError
	)

	number := func(field, value string, positive bool) float64 {
		v, err := parseNumber(value, positive)
		if err != nil {
			errs = append(errs, FieldError{Field: field, Value: value, Err: err})
		}
		return v
	}
	flag := func(field, value string) bool {
		v, err := parseFlag(value)
		if err != nil {
			errs = append(errs, FieldError{Field: field, Value: value, Err: err})
		}
		return v
	}

	d.TransferVolume = number("transferVolume", raw.TransferVolume, false)
	d.TransferDecision = flag("transferDecision", raw.TransferDecision)
	d.AcceptOffer = flag("acceptOffer", raw.AcceptOffer)
	d.AdSpend = number("adSpend", raw.AdSpend, false)
	d.RetailPrice = number("retailPrice", raw.RetailPrice, true)
	d.StopSell = flag("stopSell", raw.StopSell)

	if len(errs) > 0 {
		return Decision{}, &MalformedDecisionError{Fields: errs}
	}
	return d, nil
}

// Format renders d back into raw form.
func (d Decision) Format() RawDecision {
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	return RawDecision{
		TransferVolume:   strconv.FormatFloat(d.TransferVolume, 'f', -1, 64),
		TransferDecision: flag(d.TransferDecision),
		AcceptOffer:      flag(d.AcceptOffer),
		AdSpend:          strconv.FormatFloat(d.AdSpend, 'f', -1, 64),
		RetailPrice:      strconv.FormatFloat(d.RetailPrice, 'f', -1, 64),
		StopSell:         flag(d.StopSell),
	}
}

// Provider supplies one decision per day. NextDecision blocks until
// the decision for preview.Day is available.
//
// Errors matching ErrMalformedDecision or ErrDecisionTimeout discard
// the attempt. ErrNoMoreDecisions ends the run.
type Provider interface {
	NextDecision(ctx context.Context, preview Preview) (Decision, error)
}

type ProviderFunc func(ctx context.Context, preview Preview) (Decision, error)

func (f ProviderFunc) NextDecision(ctx context.Context, preview Preview) (Decision, error) {
	return f(ctx, preview)
}
