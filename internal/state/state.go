package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "airwaves"
	dbFileName   = "airwaves.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db  *sql.DB
	log zerolog.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *ResumeState
}

// Open opens the database under $XDG_DATA_HOME.
func Open(log zerolog.Logger) (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath, log)
}

// OpenPath opens the database at path, creating it if needed.
func OpenPath(path string, log zerolog.Logger) (*Manager, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db, log: log.With().Str("component", "state").Logger()}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending state
	if pending != nil {
		if err := saveResume(context.Background(), m.db, *pending); err != nil {
			m.log.Warn().Err(err).Msg("flush resume state")
		}
	}

	return m.db.Close()
}

// GetResume returns the last saved selection, or nil on first run.
func (m *Manager) GetResume(ctx context.Context) (*ResumeState, error) {
	return getResume(ctx, m.db)
}

// SaveResume records the selection. Writes are debounced; the latest value
// wins and Close flushes whatever is still pending.
func (m *Manager) SaveResume(state ResumeState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &state

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			if err := saveResume(context.Background(), m.db, *pending); err != nil {
				m.log.Warn().Err(err).Str("url", pending.URL).Msg("save resume state")
			}
		}
	})
}

// RecentPlays returns the most recently opened files, newest first.
func (m *Manager) RecentPlays(ctx context.Context, limit int) ([]Play, error) {
	return recentPlays(ctx, m.db, limit)
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
