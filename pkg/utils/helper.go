package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO 8601 calendar-date form used everywhere a date
// crosses an API or storage boundary.
const DateLayout = "2006-01-02"

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today truncates a timestamp to its UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GenerateBookingID creates a unique, human-quotable booking reference.
// Format: BOOK-YYYYMMDD-XXXXXXXX
func GenerateBookingID() string {
	datePart := time.Now().Format("20060102")
	randomPart := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])

	return fmt.Sprintf("BOOK-%s-%s", datePart, randomPart)
}
