package playback

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/player"
)

type registration struct {
	kind EventKind
	id   player.ListenerID
}

// Session binds one URL to the Handle for the duration of a single
// "play this track" request. Its teardown runs exactly once, whichever of
// Stop, supersession, context cancellation or Close ends it first.
type Session struct {
	id       string
	url      string
	handle   player.Handle
	store    *Store
	log      zerolog.Logger
	openedAt time.Time
	release  func(*Session)

	mu     sync.Mutex
	closed bool
	regs   []registration
	events *Subscription[Event]

	once sync.Once
	done chan struct{}
}

func newSession(url string, h player.Handle, store *Store, log zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		url:    url,
		handle: h,
		store:  store,
		log:    log.With().Str("session", id).Str("url", url).Logger(),
		events: newSubscription[Event](nil),
		done:   make(chan struct{}),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// URL returns the source this session plays.
func (s *Session) URL() string { return s.url }

// Events returns the raw lifecycle events seen by this session. The channel
// is closed after teardown. Events are dropped, oldest first, when the
// reader falls behind.
func (s *Session) Events() <-chan Event { return s.events.C }

// Done is closed once teardown has completed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close ends the session. It returns after teardown has completed.
func (s *Session) Close() {
	if s.release != nil {
		s.release(s)
		return
	}
	s.terminate()
}

// start registers the listener set and drives the handle onto the URL.
func (s *Session) start() {
	s.openedAt = time.Now()
	for _, kind := range player.EventKinds() {
		id := s.handle.AddListener(kind, s.onEvent)
		s.regs = append(s.regs, registration{kind: kind, id: id})
	}

	s.handle.SetSource(s.url)
	s.handle.Load()
	s.handle.Play()
	s.log.Debug().Msg("session opened")
}

func (s *Session) onEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Events raised by the previous session's teardown may still be in flight
	if s.closed || ev.At.Before(s.openedAt) {
		return
	}
	s.store.Apply(ev)
	s.events.send(ev)
}

// terminate releases the handle. Concurrent callers block until the first
// one has finished.
func (s *Session) terminate() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.handle.Pause()
		s.handle.SetCurrentTime(0)
		for _, r := range s.regs {
			s.handle.RemoveListener(r.kind, r.id)
		}
		s.regs = nil
		s.store.Reset()
		s.events.close()
		close(s.done)
		s.log.Debug().Msg("session closed")
	})
}
