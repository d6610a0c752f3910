package training

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation codes returned to the presentation layer.
const (
	CodeMissingFields        = "missing_fields"
	CodeInvalidDate          = "invalid_date"
	CodeNoBlocks             = "no_blocks"
	CodeInvalidCategory      = "invalid_category"
	CodeInvalidIntensityType = "invalid_intensity_type"
	CodeBlockIndex           = "block_index_out_of_range"
	CodeMissingWorkout       = "missing_workout"
	CodeInvalidStatus        = "invalid_status"
	CodeOutOfRange           = "out_of_range"
	CodeMissingDate          = "missing_date"
	CodeInvalidDuration      = "invalid_duration"
	CodeInvalidAttempts      = "invalid_attempts"
)

// ValidationError rejects user input before any record is written.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("training: %s: %s", e.Code, e.Message)
}

func newValidationError(code, message string) error {
	return &ValidationError{Code: code, Message: message}
}

// AsValidationError unwraps err into a ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// SliderRange bounds the rated inputs (pain, rpe, technique, ...).
type SliderRange struct {
	Min float64
	Max float64
}

// DefaultSliderRange is the 0-10 scale used by every rated input.
var DefaultSliderRange = SliderRange{Min: 0, Max: 10}

// Contains reports whether value falls inside the inclusive range.
func (r SliderRange) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

func (r SliderRange) check(name string, value float64) error {
	if !r.Contains(value) {
		return newValidationError(CodeOutOfRange,
			fmt.Sprintf("%s must be between %g and %g.", name, r.Min, r.Max))
	}
	return nil
}

func validateDate(raw string) (string, error) {
	date := strings.TrimSpace(raw)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", newValidationError(CodeInvalidDate, "Date must use the YYYY-MM-DD format.")
	}
	return date, nil
}

// FormatDate renders a YYYY-MM-DD date as DD/MM/YYYY. Other input is returned unchanged.
func FormatDate(isoDate string) string {
	parts := strings.Split(isoDate, "-")
	if len(parts) != 3 {
		return isoDate
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
