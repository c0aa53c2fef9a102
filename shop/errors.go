package shop

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrMalformedDecision is returned when a decision field cannot be
	// parsed. The day is discarded without touching state and can be
	// retried.
	ErrMalformedDecision = errors.New("malformed decision input")

	// ErrDecisionTimeout is returned when no decision arrived within
	// the provider's per-day timeout. Handled like a malformed decision.
	ErrDecisionTimeout = errors.New("decision timed out")

	// ErrNoMoreDecisions signals that a provider has run out of input.
	ErrNoMoreDecisions = errors.New("no more decisions")

	ErrSimulationOver = errors.New("simulation is over")
)

// FieldError describes one decision field that failed to parse.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e FieldError) Error() string {
	return e.Field + " " + strconv.Quote(e.Value) + ": " + e.Err.Error()
}

// MalformedDecisionError lists every field of a raw decision that
// failed to parse.
type MalformedDecisionError struct {
	Fields []FieldError
}

func (e *MalformedDecisionError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return ErrMalformedDecision.Error() + ": " + strings.Join(parts, "; ")
}

func (e *MalformedDecisionError) Is(target error) bool {
	return target == ErrMalformedDecision
}

// Retryable reports whether err only discards the current attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrMalformedDecision) || errors.Is(err, ErrDecisionTimeout)
}
