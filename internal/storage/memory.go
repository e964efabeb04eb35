package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStorage keeps records in process memory. It is meant for a single
// instance; every operation takes the lock once, so create and increment
// are atomic with respect to each other.
type MemoryStorage struct {
	mu    sync.RWMutex
	links map[string]*LinkRecord
}

func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		links: make(map[string]*LinkRecord),
	}, nil
}

func (m *MemoryStorage) CreateIfAbsent(_ context.Context, record LinkRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[record.ShortCode]; exists {
		return false, nil
	}

	r := record
	m.links[record.ShortCode] = &r
	return true, nil
}

func (m *MemoryStorage) Get(_ context.Context, code string) (*LinkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, exists := m.links[code]
	if !exists {
		return nil, ErrNotFound
	}

	res := *r
	return &res, nil
}

func (m *MemoryStorage) IncrementClicks(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.links[code]
	if !exists {
		return false, nil
	}

	r.TotalClicks++
	return true, nil
}

func (m *MemoryStorage) GetStats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s Stats
	for _, r := range m.links {
		s.Links++
		s.Clicks += r.TotalClicks
	}

	return s, nil
}

// load inserts already persisted records, used by FileStorage replay.
func (m *MemoryStorage) load(r LinkRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links[r.ShortCode] = &r
}

func (m *MemoryStorage) PingContext(_ context.Context) error {
	return errors.ErrUnsupported
}

func (m *MemoryStorage) Close() error {
	return nil
}
