package reminders

import (
	"context"
	"sync"

	"github.com/np-mndp/book-my-seat/internal/models"
)

// Store persists live reminders keyed by booking id. Implementations
// must keep at most one reminder per booking; Put replaces. The store
// is deliberately swappable so the bookkeeping can outlive a process
// restart without changing the scheduler contract.
type Store interface {
	Get(ctx context.Context, bookingID int64) (*models.Reminder, error)
	Put(ctx context.Context, r models.Reminder) error
	Delete(ctx context.Context, bookingID int64) error
	All(ctx context.Context) ([]models.Reminder, error)
	DeleteAll(ctx context.Context) error
}

// MemoryStore keeps reminders in process memory, matching the original
// app's transient bookkeeping.
type MemoryStore struct {
	mu        sync.RWMutex
	reminders map[int64]models.Reminder
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reminders: make(map[int64]models.Reminder)}
}

func (m *MemoryStore) Get(ctx context.Context, bookingID int64) (*models.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reminders[bookingID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MemoryStore) Put(ctx context.Context, r models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[r.BookingID] = r
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, bookingID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reminders, bookingID)
	return nil
}

func (m *MemoryStore) All(ctx context.Context) ([]models.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryStore) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders = make(map[int64]models.Reminder)
	return nil
}
