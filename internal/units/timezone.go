package units

import (
	"fmt"
	"time"
)

// IsTimezoneValid reports whether tz names a location in the tz database.
func IsTimezoneValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// ConvertTime converts t to the target timezone for display.
func ConvertTime(t time.Time, targetTimezone string) (time.Time, error) {
	loc, err := time.LoadLocation(targetTimezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", targetTimezone, err)
	}
	return t.In(loc), nil
}
