package state

import (
	"log/slog"
	"slices"
	"sync"
)

// Dispatcher is the part of the store handed to components that update state.
type Dispatcher interface {
	Dispatch(Action)
	State() AppState
}

type Listener func(AppState)

type subscription struct {
	id       int
	listener Listener
}

// Store owns the application state. Dispatch calls are serialized.
type Store struct {
	mu        sync.Mutex
	state     AppState
	reducer   Reducer
	listeners []subscription
	nextID    int
}

type Option func(*Store)

func WithReducer(r Reducer) Option {
	return func(s *Store) {
		s.reducer = r
	}
}

func WithInitialState(st AppState) Option {
	return func(s *Store) {
		s.state = st
	}
}

func New(options ...Option) *Store {
	s := &Store{
		state:   InitialState(),
		reducer: Reduce,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = s.reducer(s.state, a)
	st := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.listener)
	}
	s.mu.Unlock()

	slog.Debug("Dispatched action", slog.String("type", string(a.Type)), slog.String("operation", string(a.Operation)))
	for _, l := range listeners {
		l(st)
	}
}

func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l to be called after every dispatch, after the listeners subscribed before it.
// The returned func removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, listener: l})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool {
			return sub.id == id
		})
	}
}
