package training

import (
	"fmt"
	"strings"
)

// Category tags a block with the grip quality it trains.
type Category string

const (
	CategoryWarmup       Category = "warmup"
	CategoryMaxHang      Category = "max_hang"
	CategoryRepeaters    Category = "repeaters"
	CategoryCrimp        Category = "crimp"
	CategoryPinch        Category = "pinch"
	CategorySloper       Category = "sloper"
	CategoryPocket       Category = "pocket"
	CategoryWristForearm Category = "wrist_forearm"
	CategoryAntagonist   Category = "antagonist"
	CategoryMobility     Category = "mobility"
	CategoryOther        Category = "other"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryWarmup, CategoryMaxHang, CategoryRepeaters, CategoryCrimp, CategoryPinch,
	CategorySloper, CategoryPocket, CategoryWristForearm, CategoryAntagonist,
	CategoryMobility, CategoryOther,
}

// IntensityType names the unit of a block's intensity value.
type IntensityType string

const (
	IntensityBodyweight IntensityType = "bodyweight"
	IntensityAddedKg    IntensityType = "added_kg"
	IntensityPercentMax IntensityType = "percent_max"
	IntensityRPE        IntensityType = "rpe"
	IntensityEdgeMM     IntensityType = "edge_mm"
	IntensitySeconds    IntensityType = "seconds"
)

// IntensityTypes lists every accepted intensity type.
var IntensityTypes = []IntensityType{
	IntensityBodyweight, IntensityAddedKg, IntensityPercentMax,
	IntensityRPE, IntensityEdgeMM, IntensitySeconds,
}

// FeedbackStatus reports how much of a workout the athlete completed.
type FeedbackStatus string

const (
	StatusCompleted FeedbackStatus = "completed"
	StatusPartial   FeedbackStatus = "partial"
	StatusSkipped   FeedbackStatus = "skipped"
)

// FeedbackStatuses lists every accepted feedback status.
var FeedbackStatuses = []FeedbackStatus{StatusCompleted, StatusPartial, StatusSkipped}

// ParseCategory validates raw input against Categories.
func ParseCategory(raw string) (Category, error) {
	return parseLabel(raw, Categories, CodeInvalidCategory, "category")
}

// ParseIntensityType validates raw input against IntensityTypes.
func ParseIntensityType(raw string) (IntensityType, error) {
	return parseLabel(raw, IntensityTypes, CodeInvalidIntensityType, "intensity type")
}

// ParseFeedbackStatus validates raw input against FeedbackStatuses.
func ParseFeedbackStatus(raw string) (FeedbackStatus, error) {
	return parseLabel(raw, FeedbackStatuses, CodeInvalidStatus, "status")
}

func parseLabel[T ~string](raw string, allowed []T, code, noun string) (T, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, candidate := range allowed {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", newValidationError(code, fmt.Sprintf("Unknown %s %q.", noun, raw))
}
