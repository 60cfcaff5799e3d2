package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"voicedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAllocateSequentialIdentifiers(t *testing.T) {
	store := NewMemoryStore("BKG", 1000, zap.NewNop())

	first := store.Allocate(context.Background(), models.BookingDraft{CustomerName: "Jane"})
	second := store.Allocate(context.Background(), models.BookingDraft{CustomerName: "John"})

	assert.Equal(t, "BKG1000", first.ID)
	assert.Equal(t, "BKG1001", second.ID)
	assert.Equal(t, models.BookingStatusConfirmed, first.Status)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestAllocateConcurrentUniqueness(t *testing.T) {
	const n = 200
	store := NewMemoryStore("BKG", 1000, zap.NewNop())

	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = store.Allocate(context.Background(), models.BookingDraft{CustomerName: "c"}).ID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	// Identifiers must be exactly the contiguous range, in some order.
	sort.Strings(ids)
	for i := 0; i < n; i++ {
		want := fmt.Sprintf("BKG%d", 1000+i)
		assert.True(t, seen[want], "missing id %s", want)
	}
}

func TestLookup(t *testing.T) {
	store := NewMemoryStore("ORD", 1000, zap.NewNop())
	booking := store.Allocate(context.Background(), models.BookingDraft{CustomerName: "Jane", Phone: "+442012345678"})

	found, ok := store.Lookup(booking.ID)
	require.True(t, ok)
	assert.Equal(t, booking.ID, found.ID)
	assert.Equal(t, "Jane", found.CustomerName)

	_, ok = store.Lookup("ORD9999")
	assert.False(t, ok)
}

type failingArchive struct{ calls int }

func (a *failingArchive) Save(ctx context.Context, b models.Booking) error {
	a.calls++
	return errors.New("archive down")
}

func (a *failingArchive) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	return nil, nil
}

func TestAllocateSurvivesArchiveFailure(t *testing.T) {
	archive := &failingArchive{}
	store := NewMemoryStore("BKG", 1000, zap.NewNop()).WithArchive(archive)

	booking := store.Allocate(context.Background(), models.BookingDraft{CustomerName: "Jane"})
	assert.Equal(t, "BKG1000", booking.ID)
	assert.Equal(t, 1, archive.calls)

	_, ok := store.Lookup("BKG1000")
	assert.True(t, ok)
}
