package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dhowden/tag"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/airwaves/internal/player"
)

const numWorkers = 8

// DirProvider lists the music files under Root, tagged with whatever
// metadata they carry.
type DirProvider struct {
	Root string
	Log  zerolog.Logger
}

type fileInfo struct {
	path string
	size int64
}

func (p *DirProvider) Files(ctx context.Context) ([]File, error) {
	found, err := p.discover(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]File, len(found))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, fi := range found {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files[i] = p.read(fi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// discover walks Root and returns the music files sorted by path.
func (p *DirProvider) discover(ctx context.Context) ([]fileInfo, error) {
	var found []fileInfo
	err := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == p.Root {
				return walkErr
			}
			// Unreadable subtrees are skipped
			p.Log.Debug().Err(walkErr).Str("path", path).Msg("walk")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !player.IsMusicFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // intentionally skipping files we can't stat
		}
		found = append(found, fileInfo{path: path, size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(found, func(a, b fileInfo) int { return strings.Compare(a.path, b.path) })
	return found, nil
}

func (p *DirProvider) read(fi fileInfo) File {
	f := File{
		URL:  fi.path,
		Name: strings.TrimSuffix(filepath.Base(fi.path), filepath.Ext(fi.path)),
		Size: fi.size,
	}

	r, err := os.Open(fi.path)
	if err != nil {
		p.Log.Debug().Err(err).Str("path", fi.path).Msg("open for tags")
		return f
	}
	defer r.Close()

	m, err := tag.ReadFrom(r)
	if err != nil {
		// Untagged files keep the file name
		return f
	}
	if title := strings.TrimSpace(m.Title()); title != "" {
		f.Name = title
	}
	f.Artist = m.Artist()
	f.Album = m.Album()
	return f
}
