// Package notification tells callers about confirmed bookings out of band.
package notification

import (
	"context"
	"fmt"

	"voicedesk/models"
	"voicedesk/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqNotifier enqueues a confirmation task for each confirmed booking.
// Enqueueing is cheap; the actual message goes out from the worker.
type AsynqNotifier struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewAsynqNotifier(redisOpt asynq.RedisClientOpt, logger *zap.Logger) *AsynqNotifier {
	return &AsynqNotifier{
		client: asynq.NewClient(redisOpt),
		logger: logger,
	}
}

// BookingConfirmed queues the confirmation message for delivery.
func (n *AsynqNotifier) BookingConfirmed(ctx context.Context, booking models.Booking) error {
	task, err := tasks.NewBookingConfirmationTask(booking)
	if err != nil {
		return fmt.Errorf("failed to build confirmation task: %w", err)
	}

	info, err := n.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue confirmation task: %w", err)
	}

	n.logger.Debug("confirmation task enqueued",
		zap.String("booking_id", booking.ID),
		zap.String("task_id", info.ID),
	)
	return nil
}

// Close releases the underlying queue connection.
func (n *AsynqNotifier) Close() error {
	return n.client.Close()
}
