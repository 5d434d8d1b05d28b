//go:build !linux

package mpris

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/keymap"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ Controls, _ func(keymap.Action), _ zerolog.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
