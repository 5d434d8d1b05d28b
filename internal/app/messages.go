package app

import (
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/library"
	"github.com/llehouerou/airwaves/internal/playback"
)

// FilesLoadedMsg carries the provider result. Restore is the index of the
// file to put the cursor on, or -1.
type FilesLoadedMsg struct {
	Files     []library.File
	Restore   int
	Err       error
	ResumeErr error
}

// StateMsg carries a transport snapshot.
type StateMsg struct {
	State playback.StreamState
}

// SessionEventMsg carries a raw event from a session.
type SessionEventMsg struct {
	Session *playback.Session
	Event   playback.Event
}

// SessionClosedMsg is sent once a session's event stream has ended.
type SessionClosedMsg struct {
	Session *playback.Session
}

// ActionMsg triggers an action from outside the keyboard, such as desktop
// media keys.
type ActionMsg struct {
	Action keymap.Action
}
