// Package mpris lets desktop media keys and applets drive the player over
// the MPRIS D-Bus interface.
package mpris

import (
	"github.com/llehouerou/airwaves/internal/controller"
	"github.com/llehouerou/airwaves/internal/library"
	"github.com/llehouerou/airwaves/internal/playback"
)

const (
	busName  = "airwaves"
	identity = "Airwaves"
)

// Controls is the part of the controller the desktop reads and drives
// directly.
type Controls interface {
	Pause()
	SeekTo(seconds float64)
	SeekBy(delta float64)
	State() playback.StreamState
	Files() []library.File
	Selection() (controller.Selection, bool)
	IsFirst() bool
	IsLast() bool
}

var _ Controls = (*controller.Controller)(nil)
