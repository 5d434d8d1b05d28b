package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "airwaves.log")

	log, closer, err := Setup("debug", path)
	require.NoError(t, err)
	log.Debug().Str("url", "a.mp3").Msg("session opened")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "a.mp3", entry["url"])
	assert.Equal(t, "session opened", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestSetup_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airwaves.log")

	for i := range 2 {
		log, closer, err := Setup("info", path)
		require.NoError(t, err)
		log.Info().Int("run", i).Msg("start")
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, _, err := Setup("loud", filepath.Join(t.TempDir(), "x.log"))
	assert.Error(t, err)
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
