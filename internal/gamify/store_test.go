package gamify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avmiller/listen-lens/internal/badges"
)

func TestStore_loadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(st.Badges) != len(badges.Catalog()) {
		t.Errorf("Expected full catalog, got %d badges", len(st.Badges))
	}
	for _, b := range st.Badges {
		if b.Unlocked {
			t.Errorf("Badge %s should start locked", b.ID)
		}
	}
	if st.Level != 1 {
		t.Errorf("Expected starting level 1, got %d", st.Level)
	}
}

func TestStore_roundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	st.Badges[0].Unlocked = true
	st.Badges[0].UnlockedAt = &ts
	st.TotalScore = 100
	st.Level = 1

	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() after Save() error: %v", err)
	}
	if !loaded.Badges[0].Unlocked {
		t.Error("Expected unlock to survive the round trip")
	}
	if loaded.Badges[0].UnlockedAt == nil || !loaded.Badges[0].UnlockedAt.Equal(ts) {
		t.Errorf("Expected unlock time %v, got %v", ts, loaded.Badges[0].UnlockedAt)
	}
	if loaded.TotalScore != 100 {
		t.Errorf("Expected score 100, got %d", loaded.TotalScore)
	}
}

func TestStore_fileShape(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	st, _ := store.Load()
	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, stateFileName))
	if err != nil {
		t.Fatalf("Reading state file: %v", err)
	}

	var pf persistenceFile
	if err := json.Unmarshal(data, &pf); err != nil {
		t.Fatalf("Parsing state file: %v", err)
	}
	if pf.Version != stateVersion {
		t.Errorf("Expected version %d, got %d", stateVersion, pf.Version)
	}
	if pf.Data[stateKey] == nil {
		t.Errorf("Expected state under key %q", stateKey)
	}
	// No stray temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Reading state dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the state file in %s, found %d entries", dir, len(entries))
	}
}

func TestStore_catalogSyncAddsNewBadges(t *testing.T) {
	store := NewStore(t.TempDir())

	st, _ := store.Load()
	// Simulate a state written before some badges existed.
	st.Badges = st.Badges[:3]
	st.Badges[0].Unlocked = true
	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Badges) != len(badges.Catalog()) {
		t.Errorf("Expected catalog backfilled to %d badges, got %d", len(badges.Catalog()), len(loaded.Badges))
	}
	if !loaded.Badges[0].Unlocked {
		t.Error("Expected existing unlock carried over")
	}
	if loaded.Badges[len(loaded.Badges)-1].Unlocked {
		t.Error("Backfilled badges should start locked")
	}
}
