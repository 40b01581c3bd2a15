// Package util implements utility functions
package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

var logger *zerolog.Logger

// GetLogger returns the zerolog logger instance
func GetLogger(logLevel zerolog.Level) *zerolog.Logger {
	if logger == nil {
		l := zerolog.New(os.Stdout).Level(logLevel).With().Timestamp().Logger()
		logger = &l
	}

	return logger
}

// AddErrorContext adds context to an error, like:
// "error while searching series: Get "https://example.com": dial tcp: lookup example.com: no such host".
// Should be used in functions that can return multiple errors without a specific origin/context.
func AddErrorContext(context string, err error) error {
	return fmt.Errorf("%s: %w", context, err)
}

// ErrorContains checks if an error contains a specific string
func ErrorContains(err error, s string) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), s)
}

// XlateInt converts a string like "12", "12.0", or "" into an int.
// Returns 0 and false for empty or non-numeric values, so callers can
// tell "no value" apart from an actual 0.
func XlateInt(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if i, err := strconv.Atoi(value); err == nil {
		return i, true
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}

	return int(f), true
}

// FormatIssueNumber normalizes a chapter number string into a consistent
// form: leading zeros are stripped ("007" -> "7", "007.5" -> "7.5") and
// trailing ".0" fractions are dropped. Non-numeric strings are returned
// trimmed but otherwise unchanged.
func FormatIssueNumber(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return ""
	}

	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return number
	}

	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
