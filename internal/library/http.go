package library

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// HTTPProvider reads a JSON array of files from URL. Relative file URLs are
// resolved against the listing URL.
type HTTPProvider struct {
	URL    string
	Client *http.Client
	Log    zerolog.Logger
}

func (p *HTTPProvider) Files(ctx context.Context) ([]File, error) {
	base, err := url.Parse(p.URL)
	if err != nil {
		return nil, fmt.Errorf("parse listing url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("listing returned status %d", resp.StatusCode)
	}

	var files []File
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	valid := lo.Filter(files, func(f File, _ int) bool {
		return strings.TrimSpace(f.URL) != ""
	})
	if skipped := len(files) - len(valid); skipped > 0 {
		p.Log.Warn().Int("skipped", skipped).Str("listing", p.URL).Msg("entries without url")
	}

	return lo.FilterMap(valid, func(f File, _ int) (File, bool) {
		ref, err := url.Parse(strings.TrimSpace(f.URL))
		if err != nil {
			p.Log.Warn().Err(err).Str("url", f.URL).Msg("skipping entry")
			return File{}, false
		}
		f.URL = base.ResolveReference(ref).String()
		return f, true
	}), nil
}
