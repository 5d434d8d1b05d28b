package playback

import (
	"sync"

	"github.com/rs/zerolog"
)

// Store owns the current StreamState and broadcasts every new snapshot.
//
// A Store belongs to exactly one playback surface: construct one per Handle
// and pass it to whoever needs it.
type Store struct {
	mu         sync.Mutex
	state      StreamState
	subs       []*Subscription[StreamState]
	closed     bool
	timeFormat string
	log        zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTimeFormat sets the pattern used for the readable fields.
func WithTimeFormat(pattern string) StoreOption {
	return func(s *Store) {
		if pattern != "" {
			s.timeFormat = pattern
		}
	}
}

// WithStoreLogger sets the store's logger.
func WithStoreLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// NewStore creates a store holding the default state.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state:      DefaultState(),
		timeFormat: DefaultTimeFormat,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current snapshot.
func (s *Store) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe returns a subscription that immediately holds the current
// snapshot and then receives every snapshot published after it.
func (s *Store) Subscribe() *Subscription[StreamState] {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := newSubscription(s.unsubscribe)
	if s.closed {
		sub.close()
		return sub
	}
	sub.send(s.state.clone())
	s.subs = append(s.subs, sub)
	return sub
}

func (s *Store) unsubscribe(sub *Subscription[StreamState]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.subs {
		if existing == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Apply folds one lifecycle event into the state and publishes the result.
// A snapshot is published for every event, even when nothing changed.
func (s *Store) Apply(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case EventCanPlay:
		d := ev.Duration
		s.state.Duration = &d
		s.state.ReadableDuration = FormatTime(d, s.timeFormat)
		s.state.CanPlay = true
	case EventPlaying:
		s.state.Playing = true
	case EventPause:
		s.state.Playing = false
	case EventTimeUpdate:
		t := ev.CurrentTime
		s.state.CurrentTime = &t
		s.state.ReadableCurrentTime = FormatTime(t, s.timeFormat)
	case EventError:
		s.state = DefaultState()
		s.state.Error = true
		s.log.Warn().Err(ev.Err).Msg("playback error")
	}
	s.publishLocked()
}

// Reset restores the default state and publishes it.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = DefaultState()
	s.publishLocked()
}

// Close ends every subscription. Later subscriptions start closed.
func (s *Store) Close() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.closed = true
	s.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

func (s *Store) publishLocked() {
	for _, sub := range s.subs {
		sub.send(s.state.clone())
	}
}
