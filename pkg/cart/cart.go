// Package cart tracks the events a user has added to their cart.
package cart

import (
	"context"
	"errors"
	"sync"

	"tableflip.dev/listings/pkg/event"
	"tableflip.dev/listings/pkg/store"
)

var ErrNilEvent = errors.New("cart: event required")

// Registry is the set of events in the cart. Membership follows event.Same,
// so the same id in two cities is two entries.
type Registry interface {
	Add(e *event.Event) error
	Remove(e *event.Event) error
	Contains(e *event.Event) bool
	List() []*event.Event
}

// Memory is an in-process Registry. Adding an event already in the cart is
// a no-op. The zero value is ready to use.
type Memory struct {
	mu    sync.RWMutex
	order []*event.Event
}

// NewMemory returns a registry seeded with events.
func NewMemory(events ...*event.Event) *Memory {
	m := &Memory{}
	for _, e := range events {
		_ = m.Add(e)
	}
	return m
}

func (m *Memory) Add(e *event.Event) error {
	if e == nil {
		return ErrNilEvent
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if event.IndexOf(m.order, e) >= 0 {
		return nil
	}
	m.order = append(m.order, e)
	return nil
}

func (m *Memory) Remove(e *event.Event) error {
	if e == nil {
		return ErrNilEvent
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx := event.IndexOf(m.order, e); idx >= 0 {
		m.order = append(m.order[:idx], m.order[idx+1:]...)
	}
	return nil
}

func (m *Memory) Contains(e *event.Event) bool {
	if e == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return event.IndexOf(m.order, e) >= 0
}

// List returns cart events in the order they were added.
func (m *Memory) List() []*event.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*event.Event(nil), m.order...)
}

func (m *Memory) replace(events []*event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append(m.order[:0], events...)
}

// Store is a Registry persisted through store.Persistence. Reads are served
// from memory; call Reload after the persistence layer reports a change.
type Store struct {
	Persistence store.Persistence

	mem Memory
}

// Open loads the current cart contents from p.
func Open(ctx context.Context, p store.Persistence) (*Store, error) {
	if p == nil {
		return nil, errors.New("cart: no persistence configured")
	}
	s := &Store{Persistence: p}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory view with what is on disk.
func (s *Store) Reload(ctx context.Context) error {
	if s.Persistence == nil {
		return errors.New("cart: no persistence configured")
	}
	s.mem.replace(s.Persistence.List(ctx))
	return nil
}

func (s *Store) Add(e *event.Event) error {
	if e == nil {
		return ErrNilEvent
	}
	if s.mem.Contains(e) {
		return nil
	}
	if err := s.Persistence.Store(e); err != nil {
		return err
	}
	return s.mem.Add(e)
}

func (s *Store) Remove(e *event.Event) error {
	if e == nil {
		return ErrNilEvent
	}
	// The persisted record is keyed by city, which the caller's copy may
	// lack; prefer the stored one.
	held := s.mem.List()
	idx := event.IndexOf(held, e)
	if idx < 0 {
		return nil
	}
	target := held[idx]
	if err := s.Persistence.Delete(target); err != nil {
		return err
	}
	return s.mem.Remove(target)
}

func (s *Store) Contains(e *event.Event) bool {
	return s.mem.Contains(e)
}

func (s *Store) List() []*event.Event {
	return s.mem.List()
}

// Watch forwards change notifications from the persistence layer.
func (s *Store) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errors.New("cart: no persistence configured")
	}
	return s.Persistence.Watch(ctx)
}
