package usecase

import (
	"strings"
	"time"

	"CropInsights/internal/domain"
)

// ResolveDate turns an optional date parameter into the day to process.
// An empty parameter means yesterday in loc relative to now.
func ResolveDate(param string, now time.Time, loc *time.Location) (time.Time, error) {
	param = strings.TrimSpace(param)
	if param != "" {
		return domain.ParseDate(param)
	}
	return Yesterday(now, loc), nil
}

// Yesterday returns midnight UTC of the calendar day before now in loc.
func Yesterday(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc).AddDate(0, 0, -1)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
