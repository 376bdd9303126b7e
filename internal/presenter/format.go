// Package presenter turns query responses into ordered, formatted view models.
package presenter

import (
	"fmt"
	"math"
)

// NotAvailable is shown for missing values; never rendered as zero
const NotAvailable = "N/A"

// Polarity drives positive/negative styling of a value
type Polarity int

const (
	Neutral Polarity = iota
	Positive
	Negative
)

func (p Polarity) String() string {
	switch p {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// MarshalText lets view models carry polarity as a string
func (p Polarity) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// FormatPercentage renders a percent value with an explicit sign, e.g. +1.23%
func FormatPercentage(v *float64) string {
	if !present(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

// FormatWinRate renders a [0,1] fraction as a percentage, e.g. 62.3%
func FormatWinRate(v *float64) string {
	if !present(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

// Classify returns the polarity of a value; zero counts as positive
func Classify(v *float64) Polarity {
	if !present(v) {
		return Neutral
	}
	if *v >= 0 {
		return Positive
	}
	return Negative
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}
