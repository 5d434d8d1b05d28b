package library

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/config"
)

func TestFile_Title(t *testing.T) {
	assert.Equal(t, "Intro", File{URL: "https://x/a.mp3", Name: "Intro"}.Title())
	assert.Equal(t, "a.mp3", File{URL: "https://x/music/a.mp3"}.Title())
	assert.Equal(t, "b.flac", File{URL: "/srv/b.flac"}.Title())
}

func TestNew_PicksProvider(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LibraryConfig
		want any
	}{
		{"url wins", config.LibraryConfig{URL: "http://x/list", Dir: "/music"}, &HTTPProvider{}},
		{"dir before files", config.LibraryConfig{Dir: "/music", Files: []config.FileEntry{{URL: "a.mp3"}}}, &DirProvider{}},
		{"static fallback", config.LibraryConfig{Files: []config.FileEntry{{URL: "a.mp3"}}}, StaticProvider{}},
		{"empty config", config.LibraryConfig{}, StaticProvider{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, New(tt.cfg))
		})
	}
}

func TestStaticProvider(t *testing.T) {
	p := New(config.LibraryConfig{Files: []config.FileEntry{
		{URL: "a.mp3", Name: "A"},
		{URL: "b.mp3", Artist: "Someone"},
	}})

	files, err := p.Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []File{{URL: "a.mp3", Name: "A"}, {URL: "b.mp3", Artist: "Someone"}}, files)

	// Callers get their own copy
	files[0].Name = "changed"
	again, err := p.Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Name)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Files(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticProvider_DropsEntriesWithoutURL(t *testing.T) {
	p := New(config.LibraryConfig{Files: []config.FileEntry{
		{URL: "a.mp3", Name: "A"},
		{Name: "no url"},
		{URL: "c.mp3"},
	}})

	files, err := p.Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []File{{URL: "a.mp3", Name: "A"}, {URL: "c.mp3"}}, files)
}

func TestHTTPProvider_Files(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"url": "media/a.mp3", "name": "A", "size": 1024},
			{"url": "https://cdn.example.com/b.mp3", "artist": "B"},
			{"name": "no url"},
			{"url": "/root.wav"}
		]`))
	}))
	defer srv.Close()

	p := New(config.LibraryConfig{URL: srv.URL + "/api/files"})
	files, err := p.Files(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.Equal(t, File{URL: srv.URL + "/api/media/a.mp3", Name: "A", Size: 1024}, files[0])
	assert.Equal(t, "https://cdn.example.com/b.mp3", files[1].URL)
	assert.Equal(t, srv.URL+"/root.wav", files[2].URL)
}

func TestHTTPProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `[]`, "status 500"},
		{"not found", http.StatusNotFound, ``, "status 404"},
		{"invalid json", http.StatusOK, `{"url":`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := &HTTPProvider{URL: srv.URL, Client: srv.Client()}
			_, err := p.Files(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// id3v1 builds a file body followed by an ID3v1 trailer.
func id3v1(title, artist, album string) []byte {
	field := func(s string, n int) []byte {
		b := make([]byte, n)
		copy(b, s)
		return b
	}
	body := make([]byte, 256)
	body = append(body, "TAG"...)
	body = append(body, field(title, 30)...)
	body = append(body, field(artist, 30)...)
	body = append(body, field(album, 30)...)
	body = append(body, field("2001", 4)...)
	body = append(body, field("", 30)...)
	return append(body, 0)
}

func TestDirProvider_Files(t *testing.T) {
	root := t.TempDir()
	write := func(rel string, data []byte) {
		t.Helper()
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, data, 0o600))
	}
	write("b-side.mp3", id3v1("Second Song", "The Band", "Record"))
	write("a-side.wav", make([]byte, 64))
	write("notes.txt", []byte("not music"))
	write("disc2/c.FLAC", make([]byte, 32))

	p := New(config.LibraryConfig{Dir: root})
	files, err := p.Files(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.Equal(t, File{URL: filepath.Join(root, "a-side.wav"), Name: "a-side", Size: 64}, files[0])
	assert.Equal(t, filepath.Join(root, "b-side.mp3"), files[1].URL)
	assert.Equal(t, "Second Song", files[1].Name)
	assert.Equal(t, "The Band", files[1].Artist)
	assert.Equal(t, "Record", files[1].Album)
	assert.Equal(t, filepath.Join(root, "disc2", "c.FLAC"), files[2].URL)
	assert.Equal(t, "c", files[2].Name)
}

func TestDirProvider_MissingRoot(t *testing.T) {
	p := &DirProvider{Root: filepath.Join(t.TempDir(), "missing")}
	_, err := p.Files(context.Background())
	assert.Error(t, err)
}

func TestDirProvider_Canceled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.mp3"), make([]byte, 16), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&DirProvider{Root: root}).Files(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
