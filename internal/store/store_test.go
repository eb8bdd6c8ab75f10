package store

import (
	"path/filepath"
	"testing"
	"time"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "listenlens.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}

	return store
}

func TestCreateUser(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	err := s.CreateUser(user)
	if err != nil {
		t.Fatalf("CreateUser(%q) error: %v", user, err)
	}

	// Idempotency
	err = s.CreateUser(user)
	if err != nil {
		t.Fatalf("CreateUser(%q) error: %v", user, err)
	}
}

func TestAddRecentTracks(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tracks := []TrackImport{
		{
			Artist:    "Test Artist",
			Album:     "Test Album",
			TrackName: "Test Track",
			Date:      time.Unix(1600000000, 0),
		},
	}

	err := s.AddRecentTracks(user, tracks)
	if err != nil {
		t.Fatalf("AddRecentTracks failed: %v", err)
	}

	// Verify data was inserted
	row := s.db.QueryRow("SELECT COUNT(*) FROM Listen WHERE user = ?", user)
	var count int
	if err := row.Scan(&count); err != nil {
		t.Fatalf("querying count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 listen, got %d", count)
	}

	// Re-importing the same play must not duplicate it.
	if err := s.AddRecentTracks(user, tracks); err != nil {
		t.Fatalf("AddRecentTracks (repeat) failed: %v", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM Listen WHERE user = ?", user).Scan(&count); err != nil {
		t.Fatalf("querying count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected re-import to be deduplicated, got %d listens", count)
	}
}

func TestSessionKey(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	key, err := s.GetSessionKey(user)
	if err != nil {
		t.Fatalf("GetSessionKey: %v", err)
	}
	if key != "" {
		t.Errorf("Expected empty session key, got %q", key)
	}

	if err := s.SetSessionKey(user, "secret"); err != nil {
		t.Fatalf("SetSessionKey: %v", err)
	}
	key, err = s.GetSessionKey(user)
	if err != nil {
		t.Fatalf("GetSessionKey: %v", err)
	}
	if key != "secret" {
		t.Errorf("Expected session key %q, got %q", "secret", key)
	}
}

func TestGetLatestListen(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	latest, err := s.GetLatestListen(user)
	if err != nil {
		t.Fatalf("GetLatestListen: %v", err)
	}
	if !latest.IsZero() {
		t.Errorf("Expected zero time with no listens, got %v", latest)
	}

	newest := time.Unix(1700000000, 0)
	tracks := []TrackImport{
		{Artist: "A", Album: "B", TrackName: "Old", Date: time.Unix(1600000000, 0)},
		{Artist: "A", Album: "B", TrackName: "New", Date: newest},
	}
	if err := s.AddRecentTracks(user, tracks); err != nil {
		t.Fatalf("AddRecentTracks: %v", err)
	}

	latest, err = s.GetLatestListen(user)
	if err != nil {
		t.Fatalf("GetLatestListen: %v", err)
	}
	if !latest.Equal(newest) {
		t.Errorf("Expected latest listen %v, got %v", newest, latest)
	}
}

func TestListensSince(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tracks := []TrackImport{
		{Artist: "A", Album: "Album", TrackName: "Recent", Date: time.Unix(1700000000, 0)},
		{Artist: "A", Album: "Album", TrackName: "Ancient", Date: time.Unix(1000, 0)},
	}
	if err := s.AddRecentTracks(user, tracks); err != nil {
		t.Fatalf("AddRecentTracks: %v", err)
	}
	if err := s.SetTrackInfo("A", "Recent", 240000, 70); err != nil {
		t.Fatalf("SetTrackInfo: %v", err)
	}

	listens, err := s.ListensSince(user, time.Unix(1600000000, 0))
	if err != nil {
		t.Fatalf("ListensSince: %v", err)
	}
	if len(listens) != 1 {
		t.Fatalf("Expected 1 listen after cutoff, got %d", len(listens))
	}
	got := listens[0]
	if got.Track != "Recent" || got.DurationMs != 240000 || got.Popularity != 70 {
		t.Errorf("Unexpected listen row %+v", got)
	}
	if !got.PlayedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("Unexpected play time %v", got.PlayedAt)
	}
}

func TestArtistsSince(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tracks := []TrackImport{
		{Artist: "Frequent", Album: "X", TrackName: "One", Date: time.Unix(1700000000, 0)},
		{Artist: "Frequent", Album: "X", TrackName: "Two", Date: time.Unix(1700000100, 0)},
		{Artist: "Rare", Album: "Y", TrackName: "Three", Date: time.Unix(1700000200, 0)},
	}
	if err := s.AddRecentTracks(user, tracks); err != nil {
		t.Fatalf("AddRecentTracks: %v", err)
	}
	if err := s.SaveArtistProfile("Frequent", 80, 12345); err != nil {
		t.Fatalf("SaveArtistProfile: %v", err)
	}

	artists, err := s.ArtistsSince(user, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("ArtistsSince: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("Expected 2 artists, got %d", len(artists))
	}
	// Most played first.
	if artists[0].Name != "Frequent" || artists[0].PlayCount != 2 {
		t.Errorf("Unexpected first artist %+v", artists[0])
	}
	if artists[0].Popularity != 80 || artists[0].Followers != 12345 {
		t.Errorf("Expected saved profile data, got %+v", artists[0])
	}
}

func TestSaveArtistTags(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	tracks := []TrackImport{
		{Artist: "Tagged", Album: "X", TrackName: "One", Date: time.Unix(1700000000, 0)},
	}
	if err := s.AddRecentTracks(user, tracks); err != nil {
		t.Fatalf("AddRecentTracks: %v", err)
	}

	if err := s.SaveArtistTags("Tagged", []string{"rock", "indie"}, []int{100, 50}); err != nil {
		t.Fatalf("SaveArtistTags: %v", err)
	}
	// Replacing tags clears the old set.
	if err := s.SaveArtistTags("Tagged", []string{"electronic"}, []int{80}); err != nil {
		t.Fatalf("SaveArtistTags (replace): %v", err)
	}

	tags, err := s.TopTagsByArtist(5)
	if err != nil {
		t.Fatalf("TopTagsByArtist: %v", err)
	}
	got := tags["Tagged"]
	if len(got) != 1 || got[0] != "electronic" {
		t.Errorf("Expected replaced tag set, got %v", got)
	}
}

func TestSaveArtistTags_mismatchedCounts(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	if err := s.SaveArtistTags("X", []string{"rock"}, []int{1, 2}); err == nil {
		t.Error("Expected error for mismatched tag and count lengths")
	}
}

func TestArtistsNeedingRefresh(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	tracks := []TrackImport{
		{Artist: "Stale", Album: "X", TrackName: "One", Date: time.Unix(1700000000, 0)},
		{Artist: "Fresh", Album: "Y", TrackName: "Two", Date: time.Unix(1700000000, 0)},
	}
	if err := s.AddRecentTracks(user, tracks); err != nil {
		t.Fatalf("AddRecentTracks: %v", err)
	}
	if err := s.SaveArtistTags("Fresh", []string{"rock"}, []int{1}); err != nil {
		t.Fatalf("SaveArtistTags: %v", err)
	}

	artists, err := s.GetArtistsNeedingTagUpdate(time.Hour)
	if err != nil {
		t.Fatalf("GetArtistsNeedingTagUpdate: %v", err)
	}
	if len(artists) != 1 || artists[0] != "Stale" {
		t.Errorf("Expected only the never-tagged artist, got %v", artists)
	}
}

func TestTracksNeedingInfo(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	tracks := []TrackImport{
		{Artist: "A", Album: "X", TrackName: "NoInfo", Date: time.Unix(1700000000, 0)},
		{Artist: "A", Album: "X", TrackName: "HasInfo", Date: time.Unix(1700000100, 0)},
	}
	if err := s.AddRecentTracks(user, tracks); err != nil {
		t.Fatalf("AddRecentTracks: %v", err)
	}
	if err := s.SetTrackInfo("A", "HasInfo", 180000, 50); err != nil {
		t.Fatalf("SetTrackInfo: %v", err)
	}

	missing, err := s.TracksNeedingInfo(user)
	if err != nil {
		t.Fatalf("TracksNeedingInfo: %v", err)
	}
	if len(missing) != 1 || missing[0][1] != "NoInfo" {
		t.Errorf("Expected only the track without info, got %v", missing)
	}
}

func TestLastUpdated(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetLastUpdated(user)
	if err != nil {
		t.Fatalf("GetLastUpdated: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("Expected zero time before first update, got %v", got)
	}

	updated := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := s.SetLastUpdated(user, updated); err != nil {
		t.Fatalf("SetLastUpdated: %v", err)
	}
	got, err = s.GetLastUpdated(user)
	if err != nil {
		t.Fatalf("GetLastUpdated: %v", err)
	}
	if !got.Equal(updated) {
		t.Errorf("Expected last updated %v, got %v", updated, got)
	}
}
