/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/avmiller/listen-lens/internal/analysis"
	"github.com/avmiller/listen-lens/internal/logger"
	"github.com/avmiller/listen-lens/internal/recap"
	"github.com/avmiller/listen-lens/internal/store"
)

const tagLimit = 5

// payloadCache spares repeated metric computation when one invocation
// drives several consumers (badges, progress, coach).
var payloadCache = analysis.NewCache(analysis.DefaultFreshness)

// loadDataset reads the user's plays since start and maps them into the
// analysis shapes. Artist tags double as track genres, since last.fm has
// no per-track genre field.
func loadDataset(dbPath string, start time.Time) ([]analysis.Track, []analysis.Artist, error) {
	user := strings.ToLower(viper.GetString("user"))
	if user == "" {
		return nil, nil, fmt.Errorf("--user is required")
	}

	db, err := store.New(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	listens, err := db.ListensSince(user, start)
	if err != nil {
		return nil, nil, err
	}
	artistRows, err := db.ArtistsSince(user, start)
	if err != nil {
		return nil, nil, err
	}
	tagsByArtist, err := db.TopTagsByArtist(tagLimit)
	if err != nil {
		return nil, nil, err
	}

	var tracks []analysis.Track
	for _, l := range listens {
		tags := tagsByArtist[l.Artist]
		tracks = append(tracks, analysis.Track{
			Name:       l.Track,
			Artist:     l.Artist,
			Album:      l.Album,
			DurationMs: l.DurationMs,
			PlayedAt:   l.PlayedAt,
			Genres:     tags,
			Popularity: l.Popularity,
			Affect:     analysis.AffectFromTags(tags),
		})
	}

	var artists []analysis.Artist
	for _, a := range artistRows {
		artists = append(artists, analysis.Artist{
			Name:       a.Name,
			Genres:     tagsByArtist[a.Name],
			Popularity: a.Popularity,
			Followers:  a.Followers,
		})
	}

	return analysis.NormalizeTracks(tracks), analysis.NormalizeArtists(artists), nil
}

// loadPayload computes the metric payload for the given window, serving a
// cached copy when one is fresh.
func loadPayload(dbPath string, start time.Time) (*analysis.AnalysisPayload, error) {
	now := time.Now()
	if payload, ok := payloadCache.Get(start, now); ok {
		logger.Debug("serving cached analysis payload")
		return payload, nil
	}

	tracks, artists, err := loadDataset(dbPath, start)
	if err != nil {
		return nil, err
	}

	payload := analysis.BuildPayload(tracks, artists, now)
	payloadCache.Put(payload, start, now)
	return payload, nil
}

// loadPlayEvents maps the user's plays into recap events.
func loadPlayEvents(dbPath string, start time.Time) ([]recap.PlayEvent, error) {
	tracks, _, err := loadDataset(dbPath, start)
	if err != nil {
		return nil, err
	}

	var events []recap.PlayEvent
	for _, t := range tracks {
		events = append(events, recap.PlayEvent{
			Track:      t.Name,
			Artist:     t.Artist,
			Album:      t.Album,
			Genres:     t.Genres,
			DurationMs: t.DurationMs,
			PlayedAt:   t.PlayedAt,
		})
	}
	return events, nil
}
