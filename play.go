package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/player"
)

func newPlayCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "play <file-or-url>",
		Short: "Play a single file without the interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, nil)
			if err != nil {
				return fmt.Errorf("%s: %w", errmsg.OpConfigLoad, err)
			}
			log, logCloser, err := openLog(cfg)
			if err != nil {
				return err
			}
			defer logCloser.Close()

			pattern := cfg.GetPlayerConfig().TimeFormat
			handle := player.NewBeep(player.WithLogger(log))
			defer handle.Close()
			svc := playback.NewService(handle,
				playback.NewStore(playback.WithTimeFormat(pattern), playback.WithStoreLogger(log)),
				playback.WithLogger(log),
			)
			defer svc.Close()

			sess, err := svc.PlayStream(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return follow(cmd.OutOrStdout(), sess, pattern)
		},
	}
}

// follow prints the progress of sess until it ends, fails or is torn down.
func follow(w io.Writer, sess *playback.Session, pattern string) error {
	for ev := range sess.Events() {
		switch ev.Kind {
		case playback.EventCanPlay:
			fmt.Fprintf(w, "%s (%s)\n", sess.URL(), playback.FormatTime(ev.Duration, pattern))
		case playback.EventTimeUpdate:
			fmt.Fprintf(w, "\r%s / %s",
				playback.FormatTime(ev.CurrentTime, pattern),
				playback.FormatTime(ev.Duration, pattern))
		case playback.EventEnded:
			fmt.Fprintln(w)
			return nil
		case playback.EventError:
			fmt.Fprintln(w)
			return fmt.Errorf("play %s: %w", sess.URL(), ev.Err)
		}
	}
	return nil
}
