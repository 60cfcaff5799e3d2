package order

import (
	"context"
	"regexp"
	"testing"
	"time"

	"voicedesk/models"
	"voicedesk/services/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var bookingIDPattern = regexp.MustCompile(`BKG\d+`)

func testHours() models.BusinessHours {
	hours := models.BusinessHours{}
	for day := time.Monday; day <= time.Saturday; day++ {
		hours[day] = models.HoursWindow{Open: "9:00", Close: "20:00"}
	}
	hours[time.Sunday] = models.HoursWindow{Open: "10:00", Close: "18:00"}
	return hours
}

func salonFlow(t *testing.T) (*BookingFlow, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore("BKG", 1000, zap.NewNop())
	flow := NewBookingFlow(FlowConfig{
		OrderType:   models.OrderTypeSalon,
		PhonePolicy: validation.PhoneStrictUK,
		Hours:       testHours(),
		Store:       store,
		Logger:      zap.NewNop(),
		Now: func() time.Time {
			return time.Date(2029, 12, 1, 12, 0, 0, 0, time.UTC)
		},
	})
	return flow, store
}

func pizzaFlow(t *testing.T) (*BookingFlow, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore("ORD", 1000, zap.NewNop())
	flow := NewBookingFlow(FlowConfig{
		OrderType:   models.OrderTypePizza,
		PhonePolicy: validation.PhoneStrictUK,
		Hours:       testHours(),
		Store:       store,
		Logger:      zap.NewNop(),
	})
	return flow, store
}

func TestSetContactRejectsBadPhone(t *testing.T) {
	flow, _ := salonFlow(t)

	_, err := flow.SetContact("Jane Doe", "not-a-phone")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)
	assert.Equal(t, models.DraftEmpty, flow.State())
	assert.Empty(t, flow.Draft().CustomerName)
}

func TestSetContactAdvancesState(t *testing.T) {
	flow, _ := salonFlow(t)

	text, err := flow.SetContact("Jane Doe", "+442012345678")
	require.NoError(t, err)
	assert.Contains(t, text, "services")
	assert.Equal(t, models.DraftHasContact, flow.State())
	assert.Equal(t, "Jane Doe", flow.Draft().CustomerName)
}

func TestSubmitDetailsRequiresContact(t *testing.T) {
	flow, store := salonFlow(t)

	_, err := flow.SubmitDetails(context.Background(), "Haircut", "2030-01-07", "14:00")
	require.Error(t, err)

	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "name and phone number")
	assert.Equal(t, models.DraftEmpty, flow.State())
	_, ok := store.Lookup("BKG1000")
	assert.False(t, ok)
}

func TestSubmitDetailsRequiresAddressForDelivery(t *testing.T) {
	flow, _ := pizzaFlow(t)

	_, err := flow.SetContact("John", "+442012345678")
	require.NoError(t, err)

	_, err = flow.SubmitDetails(context.Background(), "2x Margherita", "", "")
	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "delivery address")
}

func TestSetAddressRejectsMissingPostcode(t *testing.T) {
	flow, _ := pizzaFlow(t)

	_, err := flow.SetAddress("10 Downing Street, London")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, flow.Draft().Address)

	text, err := flow.SetAddress("10 Downing Street, London SW1A 2AA")
	require.NoError(t, err)
	assert.Contains(t, text, "validated")
}

func TestSubmitDetailsConfirmsAndResets(t *testing.T) {
	flow, store := salonFlow(t)

	_, err := flow.SetContact("Jane Doe", "+442012345678")
	require.NoError(t, err)

	text, err := flow.SubmitDetails(context.Background(), "Haircut", "2030-01-07", "14:00")
	require.NoError(t, err)
	assert.Regexp(t, bookingIDPattern, text)

	booking, ok := store.Lookup("BKG1000")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", booking.CustomerName)
	assert.Equal(t, "+442012345678", booking.Phone)
	assert.Equal(t, "Haircut", booking.Items)

	// Confirmation resets the draft; resubmitting without fresh contact is a
	// precondition failure and creates no second booking.
	assert.Equal(t, models.DraftEmpty, flow.State())
	_, err = flow.SubmitDetails(context.Background(), "Haircut", "2030-01-07", "15:00")
	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)
	_, ok = store.Lookup("BKG1001")
	assert.False(t, ok)
}

func TestSubmitDetailsValidationKeepsDraft(t *testing.T) {
	flow, store := salonFlow(t)

	_, err := flow.SetContact("Jane Doe", "+442012345678")
	require.NoError(t, err)

	// Outside business hours: booking must not be created, but the fields
	// already given stay so the caller only corrects the time.
	_, err = flow.SubmitDetails(context.Background(), "Haircut", "2030-01-07", "22:00")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "schedule", verr.Field)

	draft := flow.Draft()
	assert.Equal(t, "Jane Doe", draft.CustomerName)
	assert.Equal(t, "Haircut", draft.Items)
	assert.Equal(t, models.DraftHasDetails, flow.State())
	_, ok := store.Lookup("BKG1000")
	assert.False(t, ok)

	// Correcting just the time succeeds with the retained fields.
	text, err := flow.SubmitDetails(context.Background(), "Haircut", "2030-01-07", "14:00")
	require.NoError(t, err)
	assert.Regexp(t, bookingIDPattern, text)
}

func TestPizzaOrderEndToEnd(t *testing.T) {
	flow, store := pizzaFlow(t)

	_, err := flow.SetContact("John", "+442012345678")
	require.NoError(t, err)
	_, err = flow.SetAddress("221B Baker Street, London NW1 6XE")
	require.NoError(t, err)

	text, err := flow.SubmitDetails(context.Background(), "1x Pepperoni, 1x Margherita", "", "")
	require.NoError(t, err)
	assert.Contains(t, text, "ORD1000")
	assert.Contains(t, text, "30-45 minutes")

	booking, ok := store.Lookup("ORD1000")
	require.True(t, ok)
	assert.NotEmpty(t, booking.CustomerName)
	assert.NotEmpty(t, booking.Phone)
	assert.NotEmpty(t, booking.Address)
}

type countingNotifier struct{ confirmed []string }

func (n *countingNotifier) BookingConfirmed(ctx context.Context, b models.Booking) error {
	n.confirmed = append(n.confirmed, b.ID)
	return nil
}

func TestNotifierToldOnceOnConfirmation(t *testing.T) {
	notifier := &countingNotifier{}
	store := NewMemoryStore("BKG", 1000, zap.NewNop())
	flow := NewBookingFlow(FlowConfig{
		OrderType:   models.OrderTypeSalon,
		PhonePolicy: validation.PhoneStrictUK,
		Hours:       testHours(),
		Store:       store,
		Notifier:    notifier,
		Logger:      zap.NewNop(),
	})

	_, err := flow.SetContact("Jane", "+442012345678")
	require.NoError(t, err)
	_, err = flow.SubmitDetails(context.Background(), "Manicure", "", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"BKG1000"}, notifier.confirmed)
}
