package order

import (
	"context"
	"fmt"
	"time"

	"voicedesk/models"
	"voicedesk/services/validation"

	"go.uber.org/zap"
)

// FlowConfig carries the per-deployment rules a booking flow enforces.
type FlowConfig struct {
	OrderType   models.OrderType
	PhonePolicy validation.PhonePolicy
	Hours       models.BusinessHours
	Store       Store
	Notifier    Notifier // optional
	Logger      *zap.Logger
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// BookingFlow is the per-conversation state machine that accumulates a
// draft and drives it to a confirmed booking. It is owned by exactly one
// session orchestrator and is not safe for concurrent use; the orchestrator
// serializes turns.
type BookingFlow struct {
	cfg   FlowConfig
	draft models.BookingDraft
	state models.DraftState
}

// NewBookingFlow starts a flow with an empty draft.
func NewBookingFlow(cfg FlowConfig) *BookingFlow {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &BookingFlow{cfg: cfg, state: models.DraftEmpty}
}

// State returns the current draft state.
func (f *BookingFlow) State() models.DraftState {
	return f.state
}

// Draft returns a copy of the current draft.
func (f *BookingFlow) Draft() models.BookingDraft {
	return f.draft
}

// SetContact records the caller's name and phone number. Failed phone
// validation leaves both draft and state untouched and returns the
// corrective message as a *ValidationError.
func (f *BookingFlow) SetContact(name, phone string) (string, error) {
	if !validation.ValidPhone(phone, f.cfg.PhonePolicy) {
		return "", &ValidationError{
			Field:   "phone",
			Message: "Please provide a valid UK phone number (e.g., +44 20 1234 5678 or 020 1234 5678)",
		}
	}

	f.draft.CustomerName = name
	f.draft.Phone = phone
	if f.state == models.DraftEmpty {
		f.state = models.DraftHasContact
	}

	if f.cfg.OrderType.RequiresAddress() {
		return "Customer information recorded. What's your delivery address?", nil
	}
	return "Thank you for providing your contact information. What services are you interested in booking?", nil
}

// SetAddress records a delivery address. A UK postcode must be extractable
// from the free text; otherwise the draft is left unchanged.
func (f *BookingFlow) SetAddress(address string) (string, error) {
	if _, ok := validation.ExtractPostcode(address); !ok {
		return "", &ValidationError{
			Field:   "address",
			Message: "The address appears to be invalid. Please provide a valid UK address with a proper postcode format (e.g., SW1A 1AA).",
		}
	}

	f.draft.Address = address
	if f.state == models.DraftEmpty {
		f.state = models.DraftHasContact
	}
	return "Address validated successfully. What would you like to order?", nil
}

// SubmitDetails merges the requested items and optional schedule into the
// draft and, if everything validates, allocates a booking and resets the
// draft to empty. Confirmation is an event, not a resting state: the same
// session can immediately begin a new booking.
//
// A validation failure keeps the populated draft so the caller does not
// have to repeat fields already given; a missing-precondition failure
// changes nothing at all.
func (f *BookingFlow) SubmitDetails(ctx context.Context, items, date, timeOfDay string) (string, error) {
	if err := f.checkPreconditions(); err != nil {
		return "", err
	}

	f.draft.Items = items
	if date != "" {
		f.draft.PreferredDate = date
	}
	if timeOfDay != "" {
		f.draft.PreferredTime = timeOfDay
	}
	f.state = models.DraftHasDetails

	if f.draft.HasSchedule() {
		res := validation.ValidateDateTime(f.draft.PreferredDate, f.draft.PreferredTime, f.cfg.Hours, f.cfg.Now())
		if !res.OK {
			return "", &ValidationError{Field: "schedule", Message: res.Message}
		}
	}

	booking := f.cfg.Store.Allocate(ctx, f.draft)

	if f.cfg.Notifier != nil {
		if err := f.cfg.Notifier.BookingConfirmed(ctx, booking); err != nil {
			f.cfg.Logger.Warn("confirmation notification failed",
				zap.String("booking_id", booking.ID),
				zap.Error(err),
			)
		}
	}

	f.draft = models.BookingDraft{}
	f.state = models.DraftEmpty

	return f.confirmationText(booking), nil
}

func (f *BookingFlow) checkPreconditions() error {
	var missing []string
	if !f.draft.HasContact() {
		missing = append(missing, "name", "phone number")
	}
	if f.cfg.OrderType.RequiresAddress() && f.draft.Address == "" {
		missing = append(missing, "delivery address")
	}
	if len(missing) == 0 {
		return nil
	}

	if f.cfg.OrderType.RequiresAddress() {
		return &PreconditionError{
			Missing: missing,
			Message: "Before placing your order, I need your name, phone number, and delivery address. May I have those details first?",
		}
	}
	return &PreconditionError{
		Missing: missing,
		Message: "Before booking your appointment, I need your name and phone number. May I have those details first?",
	}
}

func (f *BookingFlow) confirmationText(b models.Booking) string {
	if f.cfg.OrderType.RequiresAddress() {
		return fmt.Sprintf(
			"Your order (#%s) has been confirmed and will be delivered in 30-45 minutes. You'll receive a confirmation text message shortly.",
			b.ID,
		)
	}
	if b.PreferredDate != "" && b.PreferredTime != "" {
		return fmt.Sprintf(
			"Great! Your appointment (#%s) has been confirmed for %s at %s. You'll receive a confirmation text message. Please arrive 5-10 minutes early. Remember our 24-hour cancellation policy!",
			b.ID, b.PreferredDate, b.PreferredTime,
		)
	}
	return fmt.Sprintf("Great! Your booking (#%s) has been confirmed. You'll receive a confirmation text message.", b.ID)
}
