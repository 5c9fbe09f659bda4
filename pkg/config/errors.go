package config

import (
	"fmt"
	"math"
)

// ValidationError reports a numeric config field outside its allowed bounds
// (or non-finite). Any single ValidationError rejects the whole candidate
// document; the loader never merges a partially valid config.
type ValidationError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *ValidationError) Error() string {
	if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
		return fmt.Sprintf("config field %s: value %v is not finite", e.Field, e.Value)
	}
	return fmt.Sprintf("config field %s: value %v out of range [%v, %v]", e.Field, e.Value, e.Min, e.Max)
}

// checkRange validates a numeric field against explicit bounds.
func checkRange(field string, v, min, max float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < min || v > max {
		return &ValidationError{Field: field, Value: v, Min: min, Max: max}
	}
	return nil
}
