// internal/player/interface.go
package player

// Handle is the single audio output resource. It plays one source at a time
// and reports its lifecycle through listeners.
//
// Listeners are called serially, in emission order, and never while the
// handle holds its own lock, so a listener may call back into the handle.
type Handle interface {
	SetSource(url string)
	Source() string
	Load()
	Play()
	Pause()
	Paused() bool
	SetCurrentTime(seconds float64)
	CurrentTime() float64
	Duration() float64
	AddListener(kind EventKind, fn Listener) ListenerID
	RemoveListener(kind EventKind, id ListenerID)
	Close() error
}

// Verify implementations satisfy Handle at compile time.
var (
	_ Handle = (*Beep)(nil)
	_ Handle = (*Mock)(nil)
)
