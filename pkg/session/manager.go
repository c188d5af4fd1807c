package session

import (
	"context"
	"errors"
	"time"
)

// Manager loads and saves visitor sessions with a fixed TTL.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Load returns the stored data for id, or an empty record for a new visitor.
func (m *Manager) Load(ctx context.Context, id string) (*Data, error) {
	d, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return &Data{}, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (m *Manager) Save(ctx context.Context, id string, d *Data) error {
	return m.store.Save(ctx, id, d, m.ttl)
}
