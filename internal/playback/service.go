package playback

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/player"
)

var (
	// ErrClosed is returned by PlayStream once the service has been closed.
	ErrClosed = errors.New("playback service closed")
	// ErrEmptyURL is returned by PlayStream when no URL is given.
	ErrEmptyURL = errors.New("empty url")
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service's logger. Sessions inherit it.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// Service drives a single Handle through a sequence of sessions and keeps
// the Store in sync with it. At most one session is live at any time.
type Service struct {
	handle player.Handle
	store  *Store
	log    zerolog.Logger

	mu     sync.Mutex
	active *Session
	stop   chan struct{} // closed and replaced by Stop
	closed bool
}

// NewService creates a playback service. The caller keeps ownership of h.
func NewService(h player.Handle, store *Store, opts ...Option) *Service {
	s := &Service{
		handle: h,
		store:  store,
		log:    zerolog.Nop(),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlayStream opens a new session on url. Any live session is torn down
// completely before the new one touches the handle. Cancelling ctx ends the
// returned session.
func (s *Service) PlayStream(ctx context.Context, url string) (*Session, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	if s.active != nil {
		s.active.terminate()
		s.active = nil
	}

	sess := newSession(url, s.handle, s.store, s.log)
	sess.release = s.release
	sess.start()
	s.active = sess

	stop := s.stop
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		case <-sess.done:
			return
		}
		s.release(sess)
	}()

	return sess, nil
}

// release tears sess down and forgets it if it is still the active one.
func (s *Service) release(sess *Session) {
	sess.terminate()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == sess {
		s.active = nil
	}
}

// Active returns the live session, or nil.
func (s *Service) Active() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Play resumes the handle without touching the session lifetime.
func (s *Service) Play() { s.handle.Play() }

// Pause pauses the handle without touching the session lifetime.
func (s *Service) Pause() { s.handle.Pause() }

// SeekTo moves the playhead. The state follows on the next timeupdate.
func (s *Service) SeekTo(seconds float64) { s.handle.SetCurrentTime(seconds) }

// Stop signals every open session to end and returns once the live one
// has been torn down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	close(s.stop)
	s.stop = make(chan struct{})
	if s.active != nil {
		s.active.terminate()
		s.active = nil
	}
}

// State returns the current snapshot.
func (s *Service) State() StreamState { return s.store.State() }

// Subscribe returns a replay-latest subscription to state snapshots.
func (s *Service) Subscribe() *Subscription[StreamState] { return s.store.Subscribe() }

// Close stops playback and ends every state subscription.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopLocked()
	s.mu.Unlock()

	s.store.Close()
	return nil
}
