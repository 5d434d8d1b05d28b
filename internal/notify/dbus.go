//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Connect binds a NowPlaying to the notification daemon on the session bus.
func Connect() (*NowPlaying, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus: %w", err)
	}
	return NewNowPlaying(conn.Object(busDest, busPath)), nil
}
