package playback

import "github.com/llehouerou/airwaves/internal/player"

// Event is a raw lifecycle notification forwarded from the Handle.
type Event = player.Event

// EventKind identifies a lifecycle notification.
type EventKind = player.EventKind

// Recognized lifecycle events. A session listens to all of them; only
// canplay, playing, pause, timeupdate and error change the StreamState.
const (
	EventLoadStart      = player.EventLoadStart
	EventLoadedMetadata = player.EventLoadedMetadata
	EventCanPlay        = player.EventCanPlay
	EventPlay           = player.EventPlay
	EventPlaying        = player.EventPlaying
	EventPause          = player.EventPause
	EventTimeUpdate     = player.EventTimeUpdate
	EventEnded          = player.EventEnded
	EventError          = player.EventError
)
