package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/airwaves/internal/app"
	"github.com/llehouerou/airwaves/internal/config"
	"github.com/llehouerou/airwaves/internal/controller"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/library"
	"github.com/llehouerou/airwaves/internal/logging"
	"github.com/llehouerou/airwaves/internal/mpris"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/player"
	"github.com/llehouerou/airwaves/internal/state"
)

// flags are shared by every command. Set values override the config file.
type flags struct {
	config   string
	dir      string
	url      string
	logFile  string
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "airwaves: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "airwaves [file-or-url...]",
		Short: "Terminal audio player",
		Long: "Browse a list of audio files and play them one at a time.\n\n" +
			"Files given as arguments replace the configured library. Without\n" +
			"arguments or a configured library, the current directory is scanned.",
		Version:       appVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayer(cmd.Context(), f, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.config, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/airwaves/config.toml)")
	pf.StringVar(&f.logFile, "log-file", "", "log file (default: $XDG_STATE_HOME/airwaves/airwaves.log)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	cmd.Flags().StringVarP(&f.dir, "dir", "d", "", "scan this folder for music files")
	cmd.Flags().StringVarP(&f.url, "url", "u", "", "fetch the file list from this JSON endpoint")
	cmd.MarkFlagsMutuallyExclusive("dir", "url")

	cmd.AddCommand(newPlayCmd(f), newHistoryCmd())
	return cmd
}

// loadConfig reads the config file and applies the command line on top.
func loadConfig(f *flags, args []string) (*config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}

	switch {
	case len(args) > 0:
		entries := make([]config.FileEntry, len(args))
		for i, a := range args {
			entries[i] = config.FileEntry{URL: a}
		}
		cfg.Library = config.LibraryConfig{Files: entries}
	case f.url != "":
		cfg.Library = config.LibraryConfig{URL: f.url}
	case f.dir != "":
		cfg.Library = config.LibraryConfig{Dir: f.dir}
	case !cfg.HasLibrary():
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg.Library.Dir = wd
	}

	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, nil
}

// openLog sets up the file logger. The terminal belongs to the UI.
func openLog(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	lc := cfg.GetLogConfig()
	return logging.Setup(lc.Level, lc.File)
}

func runPlayer(ctx context.Context, f *flags, args []string) error {
	cfg, err := loadConfig(f, args)
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpConfigLoad, err)
	}

	log, logCloser, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// Audio backends write straight to fd 2, which would corrupt the screen
	if restore, err := logging.CaptureStderr(log); err != nil {
		log.Warn().Err(err).Msg("stderr not captured")
	} else {
		defer restore()
	}

	stateMgr, err := state.Open(log)
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpStateOpen, err)
	}
	defer stateMgr.Close()

	pc := cfg.GetPlayerConfig()
	handle := player.NewBeep(player.WithLogger(log))
	defer handle.Close()

	store := playback.NewStore(
		playback.WithTimeFormat(pc.TimeFormat),
		playback.WithStoreLogger(log),
	)
	svc := playback.NewService(handle, store, playback.WithLogger(log))
	defer svc.Close()
	sub := svc.Subscribe()

	ctrl := controller.New(svc, library.New(cfg.Library, library.WithLogger(log)),
		controller.WithResumeStore(stateMgr),
		controller.WithAutoAdvance(pc.AutoAdvance),
		controller.WithLogger(log),
	)

	opts := app.Options{
		SeekStep: pc.SeekStepSeconds,
		Resume:   *pc.Resume,
		Logger:   log,
	}
	if pc.Notifications {
		np, err := notify.Connect()
		if err != nil {
			log.Warn().Err(err).Msg("notifications unavailable")
		} else {
			opts.NowPlaying = np
			defer np.Clear() //nolint:errcheck // best effort on exit
		}
	}

	log.Info().Str("version", appVersion()).Msg("starting")
	p := app.NewProgram(ctx, app.New(ctx, ctrl, sub, opts))

	if *pc.MediaKeys {
		remote, err := mpris.New(ctrl, func(a keymap.Action) { p.Send(app.ActionMsg{Action: a}) }, log)
		if err != nil {
			log.Warn().Err(err).Msg("media keys unavailable")
		} else {
			defer remote.Close()
		}
	}

	return app.Run(ctx, p)
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "devel"
	}
	return bi.Main.Version
}
