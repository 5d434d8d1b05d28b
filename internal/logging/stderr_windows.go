//go:build windows

package logging

import "github.com/rs/zerolog"

// CaptureStderr is a no-op on Windows, whose audio backend stays quiet.
func CaptureStderr(_ zerolog.Logger) (restore func(), err error) {
	return func() {}, nil
}
