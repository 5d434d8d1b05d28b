// internal/player/mock.go
package player

import (
	"strconv"
	"sync"
	"time"
)

// Mock is a test double for Handle. It never emits on its own: tests drive
// the lifecycle with the Emit helpers, which dispatch synchronously.
type Mock struct {
	listeners listenerSet

	mu          sync.Mutex
	src         string
	paused      bool
	duration    float64
	currentTime float64
	calls       []string
	closed      bool
}

// NewMock creates a new mock handle for testing.
func NewMock() *Mock {
	return &Mock{paused: true}
}

func (m *Mock) SetSource(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.src = url
	m.record("src:" + url)
}

func (m *Mock) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src
}

func (m *Mock) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("load")
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
	m.record("play")
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
	m.record("pause")
}

func (m *Mock) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Mock) SetCurrentTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = seconds
	m.record("seek:" + strconv.FormatFloat(seconds, 'f', -1, 64))
}

func (m *Mock) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

func (m *Mock) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) AddListener(kind EventKind, fn Listener) ListenerID {
	m.mu.Lock()
	m.record("listen:" + kind.String())
	m.mu.Unlock()
	return m.listeners.add(kind, fn)
}

func (m *Mock) RemoveListener(kind EventKind, id ListenerID) {
	m.mu.Lock()
	m.record("unlisten:" + kind.String())
	m.mu.Unlock()
	m.listeners.remove(kind, id)
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Mock) record(call string) {
	m.calls = append(m.calls, call)
}

// Test helpers

// Calls returns every operation performed on the mock, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// ResetCalls forgets the recorded operations.
func (m *Mock) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// ListenerCount returns the number of live registrations.
func (m *Mock) ListenerCount() int { return m.listeners.count() }

// IsClosed reports whether Close was called.
func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SetDuration changes the duration readout without emitting.
func (m *Mock) SetDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = seconds
}

// Emit dispatches an event of the given kind with the current readout.
func (m *Mock) Emit(kind EventKind) {
	m.emit(Event{Kind: kind})
}

// EmitCanPlay sets the duration and dispatches canplay.
func (m *Mock) EmitCanPlay(duration float64) {
	m.SetDuration(duration)
	m.Emit(EventCanPlay)
}

// EmitTimeUpdate moves the playhead and dispatches timeupdate.
func (m *Mock) EmitTimeUpdate(currentTime float64) {
	m.mu.Lock()
	m.currentTime = currentTime
	m.mu.Unlock()
	m.Emit(EventTimeUpdate)
}

// EmitError dispatches an error event carrying err.
func (m *Mock) EmitError(err error) {
	m.emit(Event{Kind: EventError, Err: err})
}

// EmitAt dispatches an event of the given kind stamped with at, as a
// backend delivering a late event would.
func (m *Mock) EmitAt(kind EventKind, at time.Time) {
	m.emit(Event{Kind: kind, At: at})
}

func (m *Mock) emit(ev Event) {
	m.mu.Lock()
	ev.Duration = m.duration
	ev.CurrentTime = m.currentTime
	m.mu.Unlock()
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	m.listeners.dispatch(ev)
}
