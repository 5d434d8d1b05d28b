// Package notify announces the playing file on the desktop through the
// org.freedesktop.Notifications D-Bus service.
package notify

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/airwaves/internal/library"
)

const (
	busDest      = "org.freedesktop.Notifications"
	busPath      = "/org/freedesktop/Notifications"
	methodNotify = busDest + ".Notify"
	methodClose  = busDest + ".CloseNotification"

	appName      = "Airwaves"
	desktopEntry = "airwaves"
)

// Urgency is the freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// nowPlayingTimeout keeps the popup short; the player bar has the details.
const nowPlayingTimeout int32 = 4000

// Bus is the part of a D-Bus object NowPlaying talks to. dbus.BusObject
// satisfies it.
type Bus interface {
	Call(method string, flags dbus.Flags, args ...any) *dbus.Call
}

// NowPlaying announces opened files. Each announcement replaces the
// previous popup instead of stacking.
type NowPlaying struct {
	bus Bus

	mu     sync.Mutex
	lastID uint32
}

// NewNowPlaying announces through bus, usually the notification daemon's
// object on the session bus.
func NewNowPlaying(bus Bus) *NowPlaying {
	return &NowPlaying{bus: bus}
}

// Show announces f. duration is the formatted length, or "".
func (p *NowPlaying) Show(f library.File, duration string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	call := p.bus.Call(methodNotify, 0, nowPlayingArgs(f, duration, p.lastID)...)
	var id uint32
	if err := call.Store(&id); err != nil {
		return err
	}
	p.lastID = id
	return nil
}

// Clear closes the last announcement, if any.
func (p *NowPlaying) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastID == 0 {
		return nil
	}
	id := p.lastID
	p.lastID = 0
	return p.bus.Call(methodClose, 0, id).Err
}

// nowPlayingArgs lays out the Notify arguments: app name, replaced id,
// icon, summary, body, actions, hints and timeout.
func nowPlayingArgs(f library.File, duration string, replaces uint32) []any {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(UrgencyLow)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
		"category":      dbus.MakeVariant("x-airwaves.playing"),
	}
	return []any{
		appName,
		replaces,
		f.CoverArt(),
		f.Title(),
		nowPlayingBody(f, duration),
		[]string{},
		hints,
		nowPlayingTimeout,
	}
}

func nowPlayingBody(f library.File, duration string) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{f.Artist, f.Album, duration} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}
