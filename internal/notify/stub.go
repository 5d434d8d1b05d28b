//go:build !linux

package notify

import "errors"

// Connect fails outside Linux, where no notification daemon is wired up.
func Connect() (*NowPlaying, error) {
	return nil, errors.New("desktop notifications unsupported on this platform")
}
