package assert

import (
	"fmt"
	"math"
)

func Assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

func AssertNotEmpty(s string) {
	if s == "" {
		panic("expected non-empty string")
	}
}

func AssertNotNil(a any) {
	if a == nil {
		panic("expect non-nil value")
	}
}

// AssertFinite panics if v is NaN or an infinity. name
// is used in the panic message.
func AssertFinite(name string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("expected %s to be finite, got %v", name, v))
	}
}

func AssertNonNegative(name string, v float64) {
	if v < 0 {
		panic(fmt.Sprintf("expected %s to be non-negative, got %v", name, v))
	}
}
