package models

import "time"

// OrderType selects which assistant variant a session runs: salon
// appointments or pizza delivery orders.
type OrderType string

const (
	OrderTypeSalon OrderType = "salon"
	OrderTypePizza OrderType = "pizza"
)

// RequiresAddress reports whether the order type needs a delivery address
// before details can be submitted.
func (t OrderType) RequiresAddress() bool {
	return t == OrderTypePizza
}

// DraftState tracks how far a conversation has progressed towards a
// confirmed booking.
type DraftState string

const (
	DraftEmpty      DraftState = "EMPTY"
	DraftHasContact DraftState = "HAS_CONTACT"
	DraftHasDetails DraftState = "HAS_DETAILS"
)

// BookingDraft accumulates the fields a caller provides over a conversation.
// It belongs to exactly one session and is cleared once a booking confirms.
type BookingDraft struct {
	CustomerName  string `json:"customer_name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	Items         string `json:"items,omitempty"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
}

// HasContact reports whether name and phone have both been captured.
func (d BookingDraft) HasContact() bool {
	return d.CustomerName != "" && d.Phone != ""
}

// HasSchedule reports whether a preferred date and time were supplied.
func (d BookingDraft) HasSchedule() bool {
	return d.PreferredDate != "" && d.PreferredTime != ""
}

// BookingStatusConfirmed is the only status a stored booking can carry;
// cancellation is out of scope.
const BookingStatusConfirmed = "confirmed"

// Booking is a confirmed reservation record. Immutable once allocated.
type Booking struct {
	ID            string    `bson:"id" json:"booking_id"`
	Status        string    `bson:"status" json:"status"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	CustomerName  string    `bson:"customer_name" json:"customer_name"`
	Phone         string    `bson:"phone" json:"phone"`
	Address       string    `bson:"address,omitempty" json:"address,omitempty"`
	Items         string    `bson:"items" json:"items"`
	PreferredDate string    `bson:"preferred_date,omitempty" json:"preferred_date,omitempty"`
	PreferredTime string    `bson:"preferred_time,omitempty" json:"preferred_time,omitempty"`
}
