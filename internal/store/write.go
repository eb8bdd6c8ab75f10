package store

import (
	"database/sql"
	"fmt"
	"time"
)

type TrackImport struct {
	Artist    string
	Album     string
	TrackName string
	Date      time.Time
}

// CreateUser ensures a user exists in the database.
func (s *Store) CreateUser(user string) error {
	row := s.db.QueryRow("SELECT name FROM User WHERE name = ?", user)
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		_, err := s.db.Exec("INSERT INTO User (name) VALUES (?)", user)
		if err != nil {
			return fmt.Errorf("inserting user %q: %w", user, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking user %q: %w", user, err)
	}
	return nil
}

func (s *Store) SetLastUpdated(user string, updated time.Time) error {
	_, err := s.db.Exec("UPDATE User SET last_updated = ? WHERE name = ?", updated, user)
	if err != nil {
		return fmt.Errorf("updating last_updated for %q: %w", user, err)
	}
	return nil
}

func (s *Store) SetSessionKey(user, key string) error {
	_, err := s.db.Exec("UPDATE User SET session_key = ? WHERE name = ?", key, user)
	if err != nil {
		return fmt.Errorf("updating session key for %q: %w", user, err)
	}
	return nil
}

// AddRecentTracks inserts a batch of plays transactionally, creating the
// referenced artist, album, and track rows as needed.
func (s *Store) AddRecentTracks(user string, tracks []TrackImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, track := range tracks {
		if err := createArtist(tx, track.Artist); err != nil {
			return err
		}
		if err := createAlbum(tx, track.Artist, track.Album); err != nil {
			return err
		}
		trackID, err := createTrack(tx, track.Artist, track.Album, track.TrackName)
		if err != nil {
			return err
		}
		if err := createListen(tx, user, trackID, track.Date); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SetTrackInfo records duration and popularity for every track with the
// given artist and name.
func (s *Store) SetTrackInfo(artist, name string, durationMs int64, popularity int) error {
	_, err := s.db.Exec(
		"UPDATE Track SET duration_ms = ?, popularity = ? WHERE artist = ? AND name = ?",
		durationMs, popularity, artist, name)
	if err != nil {
		return fmt.Errorf("updating track info for %q - %q: %w", artist, name, err)
	}
	return nil
}

// SaveArtistProfile records popularity and follower count for an artist and
// stamps the profile refresh time.
func (s *Store) SaveArtistProfile(artist string, popularity int, followers int64) error {
	_, err := s.db.Exec(
		"UPDATE Artist SET popularity = ?, followers = ?, profile_last_updated = ? WHERE name = ?",
		popularity, followers, time.Now(), artist)
	if err != nil {
		return fmt.Errorf("saving profile for %q: %w", artist, err)
	}
	return nil
}

// SaveArtistTags replaces an artist's tags and stamps the tag refresh time.
func (s *Store) SaveArtistTags(artist string, tags []string, counts []int) error {
	if len(tags) != len(counts) {
		return fmt.Errorf("saving tags for %q: %d tags but %d counts", artist, len(tags), len(counts))
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ArtistTag WHERE artist = ?", artist); err != nil {
		return fmt.Errorf("clearing tags for %q: %w", artist, err)
	}
	for i, tag := range tags {
		if _, err := tx.Exec("INSERT OR IGNORE INTO Tag (name) VALUES (?)", tag); err != nil {
			return fmt.Errorf("inserting tag %q: %w", tag, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO ArtistTag (artist, tag, count) VALUES (?, ?, ?)",
			artist, tag, counts[i]); err != nil {
			return fmt.Errorf("linking tag %q to %q: %w", tag, artist, err)
		}
	}
	if _, err := tx.Exec(
		"UPDATE Artist SET tags_last_updated = ? WHERE name = ?", time.Now(), artist); err != nil {
		return fmt.Errorf("stamping tag update for %q: %w", artist, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func createArtist(tx *sql.Tx, name string) error {
	var dummy string
	err := tx.QueryRow("SELECT name FROM Artist WHERE name = ?", name).Scan(&dummy)
	if err == sql.ErrNoRows {
		_, err := tx.Exec("INSERT INTO Artist (name) VALUES (?)", name)
		if err != nil {
			return fmt.Errorf("inserting artist %q: %w", name, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking artist %q: %w", name, err)
	}
	return nil
}

func createAlbum(tx *sql.Tx, artist, name string) error {
	if name == "" {
		return nil
	}
	var dummy string
	err := tx.QueryRow("SELECT name FROM Album WHERE artist = ? AND name = ?", artist, name).Scan(&dummy)
	if err == sql.ErrNoRows {
		_, err := tx.Exec("INSERT INTO Album (artist, name) VALUES (?, ?)", artist, name)
		if err != nil {
			return fmt.Errorf("inserting album %q for %q: %w", name, artist, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking album %q for %q: %w", name, artist, err)
	}
	return nil
}

func createTrack(tx *sql.Tx, artist, album, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(
		"SELECT id FROM Track WHERE artist = ? AND album = ? AND name = ?",
		artist, album, name).Scan(&id)
	if err == sql.ErrNoRows {
		result, err := tx.Exec(
			"INSERT INTO Track (artist, album, name) VALUES (?, ?, ?)", artist, album, name)
		if err != nil {
			return 0, fmt.Errorf("inserting track %q: %w", name, err)
		}
		return result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("checking track %q: %w", name, err)
	}
	return id, nil
}

func createListen(tx *sql.Tx, user string, trackID int64, date time.Time) error {
	// Listens are deduplicated on (user, track, date) so re-fetching a page
	// is idempotent.
	var dummy int64
	err := tx.QueryRow(
		"SELECT id FROM Listen WHERE user = ? AND track = ? AND date = ?",
		user, trackID, date.Unix()).Scan(&dummy)
	if err == sql.ErrNoRows {
		_, err := tx.Exec(
			"INSERT INTO Listen (user, track, date) VALUES (?, ?, ?)",
			user, trackID, date.Unix())
		if err != nil {
			return fmt.Errorf("inserting listen: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking listen: %w", err)
	}
	return nil
}
