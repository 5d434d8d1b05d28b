// Package library lists the audio files the player can open.
package library

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/llehouerou/airwaves/internal/config"
)

// File describes one playable file. Only URL is required.
type File struct {
	URL    string `json:"url"`
	Name   string `json:"name,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Size   int64  `json:"size,omitempty"`
}

// Title returns the display name, falling back to the last URL segment.
func (f File) Title() string {
	if f.Name != "" {
		return f.Name
	}
	return path.Base(f.URL)
}

// Provider fetches the file list once.
type Provider interface {
	Files(ctx context.Context) ([]File, error)
}

type options struct {
	client *http.Client
	log    zerolog.Logger
}

// Option configures the providers built by New.
type Option func(*options)

// WithHTTPClient sets the client used for remote listings.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithLogger sets the providers' logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// New picks a provider for cfg: remote URL first, then directory, then the
// static list.
func New(cfg config.LibraryConfig, opts ...Option) Provider {
	o := options{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case cfg.URL != "":
		return &HTTPProvider{URL: cfg.URL, Client: o.client, Log: o.log}
	case cfg.Dir != "":
		return &DirProvider{Root: cfg.Dir, Log: o.log}
	default:
		return StaticProvider(lo.FilterMap(cfg.Files, func(f config.FileEntry, _ int) (File, bool) {
			return File{URL: f.URL, Name: f.Name, Artist: f.Artist}, f.URL != ""
		}))
	}
}
