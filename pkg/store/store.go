// Package store is a minimal host container for the token reducer.
//
// A Store owns one token.State. Dispatch is serialized so the state has a
// single writer and actions are applied in the order Dispatch is called.
// Readers get value snapshots through State and never block a dispatch for
// longer than the copy.
//
//	s := store.New(token.Initial(), store.WithLogger(logger))
//	unsubscribe := s.Subscribe(func(c store.Change) { ... })
//	defer unsubscribe()
//
//	if _, err := s.Dispatch(token.Needed()); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/tokenlife/pkg/log"
	"github.com/bft-labs/tokenlife/pkg/token"
)

// Change describes a dispatch that moved the store to a new state.
type Change struct {
	Previous token.State
	Current  token.State
	Action   token.Action
}

// Listener is called after every dispatch that changed state.
// Listeners run on the dispatching goroutine, in dispatch order, and must
// not call Dispatch on the same store.
type Listener func(Change)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(s *Store) {
		s.subscribe(l)
	}
}

type subscription struct {
	id uint64
	fn Listener
}

// Store holds the current token state and applies actions to it.
type Store struct {
	// dispatchMu serializes Dispatch including listener notification.
	dispatchMu sync.Mutex

	mu    sync.RWMutex
	state token.State

	listenersMu sync.Mutex
	listeners   []subscription
	nextID      uint64

	logger log.Logger
}

// New creates a store holding initial.
func New(initial token.State, opts ...Option) *Store {
	s := &Store{
		state:  initial,
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() token.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a and returns the resulting state.
// On error the state is left unchanged and the error is returned as is;
// it matches token.ErrInvalidTransition.
func (s *Store) Dispatch(a token.Action) (token.State, error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	prev := s.State()
	next, err := token.Reduce(prev, a)
	if err != nil {
		s.logger.Error("rejected action",
			log.Stringer("signal", a.Type),
			log.Stringer("status", prev.Status),
			log.Err(err),
		)
		return prev, err
	}

	if next == prev {
		if a.Type.Known() {
			s.logger.Debug("action left state unchanged",
				log.Stringer("signal", a.Type),
				log.Stringer("status", prev.Status),
			)
		}
		return prev, nil
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.Info("token state changed",
		log.Stringer("signal", a.Type),
		log.Stringer("from", prev.Status),
		log.Stringer("to", next.Status),
		log.Int("token_len", len(next.Token)),
	)

	c := Change{Previous: prev, Current: next, Action: a}
	for _, l := range s.snapshotListeners() {
		l(c)
	}
	return next, nil
}

// Subscribe registers l and returns a function that removes it.
// The returned function is safe to call more than once.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	id := s.subscribe(l)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			defer s.listenersMu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) subscribe(l Listener) uint64 {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	return id
}

// snapshotListeners returns listeners in registration order.
func (s *Store) snapshotListeners() []Listener {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	out := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		out[i] = sub.fn
	}
	return out
}

// Run consumes actions until the channel is closed, ctx is canceled, or a
// dispatch fails. Actions are applied in receive order by this goroutine only.
// Returns nil when actions is closed, ctx.Err() on cancellation, and the
// failing dispatch error otherwise.
func (s *Store) Run(ctx context.Context, actions <-chan token.Action) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a, ok := <-actions:
			if !ok {
				return nil
			}
			if _, err := s.Dispatch(a); err != nil {
				return fmt.Errorf("dispatch %s: %w", a.Type, err)
			}
		}
	}
}
