package models

import "fmt"

// NumericMode decides how every token of every line is converted. It is fixed for the
// lifetime of a store. Values are stored as float64 either way, so Int samples beyond
// ±2^53 are rounded to the nearest representable float.
type NumericMode string

const (
	Float NumericMode = "float"
	Int   NumericMode = "int"
)

func ParseNumericMode(s string) (NumericMode, error) {
	switch NumericMode(s) {
	case Float, Int:
		return NumericMode(s), nil
	default:
		return "", fmt.Errorf("unknown numeric mode %q (want %q or %q)", s, Float, Int)
	}
}
