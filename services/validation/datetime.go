package validation

import (
	"fmt"
	"time"

	"voicedesk/models"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	clockLayout    = "15:04"
)

// ValidateDateTime checks a requested appointment slot: the date/time must
// parse, must not be in the past, and must fall inside the business-hours
// window for its weekday. Days absent from hours are closed. The window is
// inclusive at both ends, so the closing time itself is still bookable.
func ValidateDateTime(dateStr, timeStr string, hours models.BusinessHours, now time.Time) models.ValidationResult {
	requested, err := time.ParseInLocation(dateTimeLayout, dateStr+" "+timeStr, now.Location())
	if err != nil {
		return models.ValidationResult{OK: false, Message: "Invalid date or time format"}
	}

	if requested.Before(now) {
		return models.ValidationResult{OK: false, Message: "Cannot book appointments in the past"}
	}

	day := requested.Weekday()
	window, open := hours[day]
	if !open {
		return models.ValidationResult{OK: false, Message: fmt.Sprintf("We're closed on %ss", day)}
	}

	openMin, err := clockMinutes(window.Open)
	if err != nil {
		return models.ValidationResult{OK: false, Message: fmt.Sprintf("We're closed on %ss", day)}
	}
	closeMin, err := clockMinutes(window.Close)
	if err != nil {
		return models.ValidationResult{OK: false, Message: fmt.Sprintf("We're closed on %ss", day)}
	}

	requestedMin := requested.Hour()*60 + requested.Minute()
	if requestedMin < openMin || requestedMin > closeMin {
		return models.ValidationResult{OK: false, Message: fmt.Sprintf("We're not open at %s on %ss", timeStr, day)}
	}

	return models.ValidationResult{OK: true, Message: "Valid date and time"}
}

// clockMinutes parses "HH:MM" into minutes from midnight. The hour may be
// unpadded ("9:00"), which is how config files usually write it.
func clockMinutes(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
