package gamify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	stateVersion  = 1
	stateFileName = "state.json"
	stateKey      = "listen_lens_gamification"
	appDirName    = "listen-lens"
)

// persistenceFile wraps the state under a single fixed key. The whole
// object is rewritten on every mutation; there is no delta persistence.
type persistenceFile struct {
	Version int               `json:"version"`
	SavedAt time.Time         `json:"saved_at"`
	Data    map[string]*State `json:"data"`
}

// Store reads and writes the gamification state file.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. Pass an empty string to use the
// default XDG state path.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = defaultStateDir()
	}
	return &Store{dir: dir}
}

// Path returns the full path to the state file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, stateFileName)
}

// Load reads the state from disk. A missing file yields a fresh state with
// every badge locked. A present file is reconciled with the compiled-in
// badge catalog.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return newState(), nil
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var pf persistenceFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	st := pf.Data[stateKey]
	if st == nil {
		return newState(), nil
	}
	st.syncCatalog()
	if st.Level < 1 {
		st.Level = 1
	}
	return st, nil
}

// Save writes the full state atomically via a temp file and rename.
func (s *Store) Save(st *State) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	pf := persistenceFile{
		Version: stateVersion,
		SavedAt: time.Now().UTC(),
		Data:    map[string]*State{stateKey: st},
	}
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("renaming state file: %w", err)
	}
	committed = true

	return nil
}

// defaultStateDir returns ~/.local/state/listen-lens, respecting
// XDG_STATE_HOME if set.
func defaultStateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
