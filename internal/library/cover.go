package library

import (
	"net/url"
	"os"
	"path/filepath"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// LocalPath returns the filesystem path of f, or "" when f is remote.
func (f File) LocalPath() string {
	u, err := url.Parse(f.URL)
	if err != nil {
		return f.URL
	}
	switch {
	case u.Scheme == "", len(u.Scheme) == 1: // drive letter
		return f.URL
	case u.Scheme == "file":
		return u.Path
	default:
		return ""
	}
}

// CoverArt looks for album art next to a local file. Returns "" for remote
// files or when nothing is found.
func (f File) CoverArt() string {
	p := f.LocalPath()
	if p == "" {
		return ""
	}
	dir := filepath.Dir(p)
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
