package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the zero-padded key format used for bundles and markers.
// Lexical order of keys in this format equals chronological order.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date key does not match DateLayout.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate validates a YYYY-MM-DD key.
func ParseDate(value string) (time.Time, error) {
	day, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, value)
	}
	return day, nil
}

// DateKey formats a day as a bundle key.
func DateKey(day time.Time) string {
	return day.Format(DateLayout)
}
