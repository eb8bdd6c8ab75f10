package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ListenRow is one play joined with its track metadata.
type ListenRow struct {
	Artist     string
	Album      string
	Track      string
	DurationMs int64
	Popularity int
	PlayedAt   time.Time
}

// ArtistRow is an artist with profile metadata.
type ArtistRow struct {
	Name       string
	Popularity int
	Followers  int64
	PlayCount  int64
}

func (s *Store) GetSessionKey(user string) (string, error) {
	row := s.db.QueryRow("SELECT session_key FROM User WHERE name = ? AND session_key <> ''", user)
	var key string
	err := row.Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting session key: %w", err)
	}
	return key, nil
}

func (s *Store) GetLastUpdated(user string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_updated FROM User WHERE name = ?", user)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last updated: %w", err)
	}
	return t.Time, nil
}

func (s *Store) GetLatestListen(user string) (time.Time, error) {
	row := s.db.QueryRow("SELECT MAX(date) FROM Listen WHERE user = ?", user)
	var date sql.NullInt64
	err := row.Scan(&date)
	if err != nil {
		return time.Time{}, fmt.Errorf("scanning latest listen: %w", err)
	}
	if !date.Valid {
		return time.Time{}, nil
	}
	return time.Unix(date.Int64, 0), nil
}

// ListensSince returns every play after since, newest first, joined with
// track metadata. This single reader feeds analysis, recap, and mood.
func (s *Store) ListensSince(user string, since time.Time) ([]ListenRow, error) {
	query := `
	SELECT Track.artist, Track.album, Track.name, Track.duration_ms, Track.popularity, Listen.date
	FROM Listen
	INNER JOIN Track ON Track.id = Listen.track
	WHERE Listen.user = ? AND Listen.date >= ?
	ORDER BY Listen.date DESC
	`
	rows, err := s.db.Query(query, user, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying listens: %w", err)
	}
	defer rows.Close()

	var listens []ListenRow
	for rows.Next() {
		var l ListenRow
		var date int64
		if err := rows.Scan(&l.Artist, &l.Album, &l.Track, &l.DurationMs, &l.Popularity, &date); err != nil {
			return nil, fmt.Errorf("scanning listen: %w", err)
		}
		l.PlayedAt = time.Unix(date, 0)
		listens = append(listens, l)
	}
	return listens, rows.Err()
}

// ArtistsSince returns the artists the user played after since with their
// profile metadata, most played first.
func (s *Store) ArtistsSince(user string, since time.Time) ([]ArtistRow, error) {
	query := `
	SELECT Artist.name, Artist.popularity, Artist.followers, COUNT(Listen.id)
	FROM Listen
	INNER JOIN Track ON Track.id = Listen.track
	INNER JOIN Artist ON Artist.name = Track.artist
	WHERE Listen.user = ? AND Listen.date >= ?
	GROUP BY Artist.name
	ORDER BY COUNT(Listen.id) DESC
	`
	rows, err := s.db.Query(query, user, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying artists: %w", err)
	}
	defer rows.Close()

	var artists []ArtistRow
	for rows.Next() {
		var a ArtistRow
		if err := rows.Scan(&a.Name, &a.Popularity, &a.Followers, &a.PlayCount); err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// TopTagsByArtist returns up to limit tags per artist, most counted first.
func (s *Store) TopTagsByArtist(limit int) (map[string][]string, error) {
	rows, err := s.db.Query("SELECT artist, tag FROM ArtistTag ORDER BY artist, count DESC")
	if err != nil {
		return nil, fmt.Errorf("querying artist tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var artist, tag string
		if err := rows.Scan(&artist, &tag); err != nil {
			return nil, fmt.Errorf("scanning artist tag: %w", err)
		}
		if len(tags[artist]) < limit {
			tags[artist] = append(tags[artist], tag)
		}
	}
	return tags, rows.Err()
}

// GetArtistsNeedingTagUpdate returns artists whose tags are older than the
// interval, restricted to artists the user has actually played.
func (s *Store) GetArtistsNeedingTagUpdate(interval time.Duration) ([]string, error) {
	return s.artistsNeedingRefresh("tags_last_updated", interval)
}

// GetArtistsNeedingProfileUpdate returns artists whose popularity and
// follower data are older than the interval.
func (s *Store) GetArtistsNeedingProfileUpdate(interval time.Duration) ([]string, error) {
	return s.artistsNeedingRefresh("profile_last_updated", interval)
}

func (s *Store) artistsNeedingRefresh(column string, interval time.Duration) ([]string, error) {
	threshold := time.Now().Add(-interval)
	query := fmt.Sprintf(`
	SELECT Track.artist
	FROM Listen
	INNER JOIN Track ON Track.id = Listen.track
	INNER JOIN Artist ON Artist.name = Track.artist
	WHERE Artist.%s IS NULL OR Artist.%s < ?
	GROUP BY Track.artist
	`, column, column)
	rows, err := s.db.Query(query, threshold)
	if err != nil {
		return nil, fmt.Errorf("querying artists needing %s refresh: %w", column, err)
	}
	defer rows.Close()

	var artists []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning artist name: %w", err)
		}
		artists = append(artists, name)
	}
	return artists, rows.Err()
}

// TracksNeedingInfo returns (artist, name) pairs still missing duration and
// popularity data, restricted to the user's plays.
func (s *Store) TracksNeedingInfo(user string) ([][2]string, error) {
	query := `
	SELECT DISTINCT Track.artist, Track.name
	FROM Listen
	INNER JOIN Track ON Track.id = Listen.track
	WHERE Listen.user = ? AND Track.duration_ms = 0
	`
	rows, err := s.db.Query(query, user)
	if err != nil {
		return nil, fmt.Errorf("querying tracks needing info: %w", err)
	}
	defer rows.Close()

	var tracks [][2]string
	for rows.Next() {
		var artist, name string
		if err := rows.Scan(&artist, &name); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, [2]string{artist, name})
	}
	return tracks, rows.Err()
}
