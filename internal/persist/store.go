// Package persist stores session snapshots so a restarted engine can revive
// its webviews.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pkt.systems/orrery/schema"
	"pkt.systems/pslog"
)

const sessionFile = "session.json"

// WebViewSession captures one webview for persistence: its history URLs
// oldest first and the index of the committed entry.
type WebViewSession struct {
	URLs    []string `json:"urls"`
	Current int      `json:"current"`
	Focused bool     `json:"focused,omitempty"`
}

// Snapshot captures the whole session.
type Snapshot struct {
	SavedAt  time.Time        `json:"saved_at"`
	WebViews []WebViewSession `json:"webviews"`
}

// Store persists session snapshots to disk.
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore constructs a session store at the given directory.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a session store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("state_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Load reads the persisted session. A missing file is not an error; the
// second return value reports whether a snapshot existed. A file that cannot
// be decoded wraps schema.ErrSessionCorrupt.
func (s *Store) Load() (Snapshot, bool, error) {
	path := filepath.Join(s.dir, sessionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("session load miss")
			}
			return Snapshot{}, false, nil
		}
		if s.log != nil {
			s.log.Warn("session load failed", "err", err)
		}
		return Snapshot{}, false, err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		if s.log != nil {
			s.log.Warn("session load failed", "err", err)
		}
		return Snapshot{}, false, fmt.Errorf("%w: %v", schema.ErrSessionCorrupt, err)
	}
	if s.log != nil {
		s.log.Debug("session load ok", "webviews", len(snapshot.WebViews))
	}
	return snapshot, true, nil
}

// Save writes the session snapshot atomically: temp file, sync, rename.
func (s *Store) Save(snapshot Snapshot) error {
	path := filepath.Join(s.dir, sessionFile)
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		if s.log != nil {
			s.log.Warn("session save failed", "err", err)
		}
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "session-*.json")
	if err != nil {
		if s.log != nil {
			s.log.Warn("session save failed", "err", err)
		}
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("session save failed", "err", err)
		}
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("session save failed", "err", err)
		}
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("session save failed", "err", err)
		}
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("session save failed", "err", err)
		}
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		if s.log != nil {
			s.log.Warn("session save failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Trace("session save ok", "webviews", len(snapshot.WebViews))
	}
	return nil
}
