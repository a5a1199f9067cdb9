package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt converts a query value to a positive int, falling back to
// defaultValue when empty, malformed or below 1.
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}

	return result
}

// ParseOptionalInt returns nil for empty or malformed input.
func ParseOptionalInt(value string) *int {
	if value == "" {
		return nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &result
}

// ParseOptionalFloat returns nil for empty or malformed input.
func ParseOptionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &result
}

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// MaskTail replaces all but the last n characters with '*'.
func MaskTail(value string, n int) string {
	if len(value) <= n {
		return value
	}
	return strings.Repeat("*", len(value)-n) + value[len(value)-n:]
}
