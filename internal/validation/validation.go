package validation

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MaxInputLength is the maximum allowed length for a single chat turn (100K characters)
	MaxInputLength = 100000

	// MinTemperature and MaxTemperature bound the sampling temperature accepted in config
	MinTemperature = 0.0
	MaxTemperature = 1.0
)

// ValidateRequired checks that a string field carries a non-blank value
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("invalid or missing %s", field)
	}
	return nil
}

// ValidateTemperature checks that t lies in [0, 1] inclusive
func ValidateTemperature(t float64) error {
	if math.IsNaN(t) || t < MinTemperature || t > MaxTemperature {
		return fmt.Errorf("invalid temperature %v (should be between %v and %v)", t, MinTemperature, MaxTemperature)
	}
	return nil
}

// ValidateTextInput validates text input for API calls
func ValidateTextInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if len(text) > MaxInputLength {
		return fmt.Errorf("text exceeds maximum length of %d characters (got %d)", MaxInputLength, len(text))
	}
	return nil
}
