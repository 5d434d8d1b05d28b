package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// DefaultMaxSourceBytes caps how much of a source is read into memory. It
// holds well over an hour of CD-quality WAV.
const DefaultMaxSourceBytes int64 = 1 << 30

var (
	// ErrUnsupportedFormat is returned for sources no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrSourceTooLarge is returned when a source exceeds the read cap.
	ErrSourceTooLarge = errors.New("source too large")
)

var contentTypes = map[string]string{
	"audio/mpeg":   extMP3,
	"audio/mp3":    extMP3,
	"audio/flac":   extFLAC,
	"audio/x-flac": extFLAC,
	"audio/wav":    extWAV,
	"audio/wave":   extWAV,
	"audio/x-wav":  extWAV,
	"audio/ogg":    extOGG,
	"audio/vorbis": extOGG,
}

// IsMusicFile reports whether the path has an extension the Beep handle can decode.
func IsMusicFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	}
	return false
}

// memSource is an in-memory audio payload. It implements io.ReadSeekCloser
// so decoders that can seek (go-mp3) get random access.
type memSource struct {
	*bytes.Reader
}

func (memSource) Close() error { return nil }

// fetch reads the whole source into memory and returns it together with the
// extension used to pick a decoder. Sources are http(s) URLs, file:// URLs
// or plain paths. Reading stops with ErrSourceTooLarge past limit bytes.
func fetch(ctx context.Context, client *http.Client, src string, limit int64) (memSource, string, error) {
	u, err := url.Parse(src)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return fetchHTTP(ctx, client, u, limit)
	}

	p := src
	if err == nil && u.Scheme == "file" {
		p = u.Path
	}
	f, err := os.Open(p)
	if err != nil {
		return memSource{}, "", err
	}
	defer f.Close()
	data, err := readCapped(f, limit)
	if err != nil {
		return memSource{}, "", fmt.Errorf("read %s: %w", p, err)
	}
	return memSource{bytes.NewReader(data)}, strings.ToLower(filepath.Ext(p)), nil
}

// readCapped reads r to EOF, failing once more than limit bytes arrive.
func readCapped(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrSourceTooLarge, limit)
	}
	return data, nil
}

func fetchHTTP(ctx context.Context, client *http.Client, u *url.URL, limit int64) (memSource, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return memSource{}, "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return memSource{}, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return memSource{}, "", fmt.Errorf("fetch %s: %s", u.Redacted(), resp.Status)
	}

	data, err := readCapped(resp.Body, limit)
	if err != nil {
		return memSource{}, "", fmt.Errorf("fetch %s: %w", u.Redacted(), err)
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if !IsMusicFile(ext) {
		if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
			if e, ok := contentTypes[mt]; ok {
				ext = e
			}
		}
	}
	return memSource{bytes.NewReader(data)}, ext, nil
}

// decode picks a beep decoder by extension.
func decode(src memSource, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case extMP3:
		return mp3.Decode(src)
	case extFLAC:
		// Skip ID3v2 tag if present (some taggers add it to FLAC files)
		if err := skipID3v2(src); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(src)
	case extWAV:
		return wav.Decode(src)
	case extOGG:
		return vorbis.Decode(src)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the stream.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is a syncsafe integer: 7 bits per byte
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
