package models

import "time"

// ValidationResult is the outcome of a validator. Malformed input is an
// expected outcome (OK=false with a user-facing message), never a panic.
type ValidationResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// HoursWindow is one weekday's opening window, both ends in "HH:MM".
type HoursWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// BusinessHours maps a weekday to its opening window. Days absent from the
// map are treated as closed.
type BusinessHours map[time.Weekday]HoursWindow
