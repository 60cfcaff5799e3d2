package order

// ValidationError reports malformed caller input (phone, postcode,
// date/time). The message is user-facing and rendered as conversational
// text; it never crosses the session boundary as a failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PreconditionError reports an attempt to submit booking details before the
// required fields were captured. The message is the guidance prompt read
// back to the caller.
type PreconditionError struct {
	Missing []string
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}
