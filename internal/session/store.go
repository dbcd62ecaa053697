package session

import (
	"fmt"
	"sync"
)

// Store holds the live session state. Every Set is applied under a lock,
// becomes visible to Get immediately and is mirrored to the configured
// Persistence.
type Store struct {
	mu          sync.Mutex
	state       State
	persistence Persistence

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(State)
}

// Option customizes a Store.
type Option func(*Store)

// WithPersistence mirrors every change into p.
func WithPersistence(p Persistence) Option {
	return func(s *Store) {
		if p != nil {
			s.persistence = p
		}
	}
}

// WithState seeds the store with an initial state.
func WithState(state State) Option {
	return func(s *Store) {
		s.state = state
	}
}

// NewStore builds a store starting from Defaults.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state:       Defaults(),
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open loads the last snapshot from p and returns a store persisting into it.
func Open(p Persistence, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("session: persistence is required")
	}
	snapshot, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	opts = append([]Option{WithState(snapshot.State())}, opts...)
	opts = append(opts, WithPersistence(p))
	return NewStore(opts...), nil
}

// Get returns a copy of the current state.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set applies patch and persists the resulting snapshot. A persistence error
// is returned but the in-memory change is kept.
func (s *Store) Set(patch Patch) error {
	s.mu.Lock()
	s.state = patch.apply(s.state)
	state := s.state
	var saveErr error
	if s.persistence != nil {
		if err := s.persistence.Save(SnapshotOf(state)); err != nil {
			saveErr = fmt.Errorf("session: save: %w", err)
		}
	}
	s.mu.Unlock()

	s.notify(state)
	return saveErr
}

// Subscribe registers fn to receive the state after every Set. The returned
// func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(state State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}
