//go:build !windows

package logging

import (
	"bufio"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// CaptureStderr redirects file descriptor 2 into log. The audio backend's C
// code writes there directly and would otherwise corrupt the TUI layout.
// The returned func restores the original stderr and waits for the last
// captured line to be logged.
func CaptureStderr(log zerolog.Logger) (restore func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	stderrFd := int(os.Stderr.Fd())
	orig, err := unix.Dup(stderrFd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := unix.Dup2(int(w.Fd()), stderrFd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	log = log.With().Str("source", "stderr").Logger()
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				log.Warn().Msg(line)
			}
		}
	}()

	return func() {
		_ = unix.Dup2(orig, stderrFd)
		_ = unix.Close(orig)
		w.Close()
		<-done
		r.Close()
	}, nil
}
