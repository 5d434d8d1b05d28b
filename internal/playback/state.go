// internal/playback/state.go
package playback

// StreamState is a snapshot of transport progress. The Store replaces it
// wholesale on every change; subscribers receive copies that share nothing
// with the Store or with each other.
type StreamState struct {
	Playing             bool
	Duration            *float64 // seconds, nil until canplay
	CurrentTime         *float64 // seconds, nil until the first timeupdate
	ReadableDuration    string
	ReadableCurrentTime string
	CanPlay             bool
	Error               bool
}

// DefaultState returns the shape the Store starts from and resets to.
func DefaultState() StreamState {
	return StreamState{}
}

// IsDefault reports whether s has every field at its default.
func (s StreamState) IsDefault() bool {
	return !s.Playing && !s.CanPlay && !s.Error &&
		s.Duration == nil && s.CurrentTime == nil &&
		s.ReadableDuration == "" && s.ReadableCurrentTime == ""
}

// Progress returns CurrentTime/Duration clamped to [0, 1], or 0 when either is unknown.
func (s StreamState) Progress() float64 {
	if s.Duration == nil || s.CurrentTime == nil || *s.Duration <= 0 {
		return 0
	}
	return min(max(*s.CurrentTime / *s.Duration, 0), 1)
}

// Status derives the coarse transport status.
func (s StreamState) Status() Status {
	switch {
	case s.Error:
		return StatusError
	case s.Playing:
		return StatusPlaying
	case s.CanPlay:
		return StatusPaused
	default:
		return StatusStopped
	}
}

func (s StreamState) clone() StreamState {
	c := s
	if s.Duration != nil {
		d := *s.Duration
		c.Duration = &d
	}
	if s.CurrentTime != nil {
		t := *s.CurrentTime
		c.CurrentTime = &t
	}
	return c
}

// Status represents the coarse transport status derived from a StreamState.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "Stopped"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}
