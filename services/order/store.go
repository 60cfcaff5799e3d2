package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"voicedesk/models"

	"go.uber.org/zap"
)

// MemoryStore is the process-wide booking store. Identifiers are formatted
// as prefix plus a strictly increasing counter (e.g. BKG1000) and are never
// reused; allocation is serialized across concurrently confirming sessions.
type MemoryStore struct {
	logger  *zap.Logger
	archive Archive

	mu       sync.Mutex
	prefix   string
	next     int
	bookings []models.Booking
	byID     map[string]int
}

// NewMemoryStore builds a store that issues identifiers starting at start.
func NewMemoryStore(prefix string, start int, logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		logger: logger,
		prefix: prefix,
		next:   start,
		byID:   make(map[string]int),
	}
}

// WithArchive attaches a durable mirror for confirmed bookings. Call before
// the store is shared between sessions.
func (s *MemoryStore) WithArchive(archive Archive) *MemoryStore {
	s.archive = archive
	return s
}

// Allocate atomically issues the next identifier and records the booking.
// The snapshot must already be validated; the store does not re-check it.
func (s *MemoryStore) Allocate(ctx context.Context, snapshot models.BookingDraft) models.Booking {
	s.mu.Lock()
	booking := models.Booking{
		ID:            fmt.Sprintf("%s%d", s.prefix, s.next),
		Status:        models.BookingStatusConfirmed,
		CreatedAt:     time.Now(),
		CustomerName:  snapshot.CustomerName,
		Phone:         snapshot.Phone,
		Address:       snapshot.Address,
		Items:         snapshot.Items,
		PreferredDate: snapshot.PreferredDate,
		PreferredTime: snapshot.PreferredTime,
	}
	s.next++
	s.byID[booking.ID] = len(s.bookings)
	s.bookings = append(s.bookings, booking)
	s.mu.Unlock()

	s.logger.Info("booking allocated",
		zap.String("booking_id", booking.ID),
		zap.String("date", booking.PreferredDate),
		zap.String("time", booking.PreferredTime),
	)

	if s.archive != nil {
		archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.archive.Save(archiveCtx, booking); err != nil {
			s.logger.Warn("booking archive write failed",
				zap.String("booking_id", booking.ID),
				zap.Error(err),
			)
		}
	}

	return booking
}

// Lookup returns the booking with the given identifier; absence is not an
// error.
func (s *MemoryStore) Lookup(id string) (models.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[id]
	if !ok {
		return models.Booking{}, false
	}
	return s.bookings[idx], true
}
