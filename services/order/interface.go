package order

import (
	"context"

	"voicedesk/models"
)

// Store allocates unique booking identifiers and records confirmed
// bookings.
type Store interface {
	Allocate(ctx context.Context, snapshot models.BookingDraft) models.Booking
	Lookup(id string) (models.Booking, bool)
}

// Archive mirrors confirmed bookings into durable storage. Implementations
// are best-effort collaborators; an archive failure never fails a booking.
type Archive interface {
	Save(ctx context.Context, booking models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
}

// Notifier is told about each confirmed booking so a confirmation message
// can be sent out of band.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking models.Booking) error
}
