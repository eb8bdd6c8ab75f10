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
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/ademuri/lastfm-go/lastfm"
	"github.com/avmiller/listen-lens/internal/logger"
	"github.com/avmiller/listen-lens/internal/store"
)

type UpdateConfig struct {
	DbPath          string
	User            string
	After           string
	Force           bool
	RefreshInterval time.Duration
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetches listening data from last.fm",
	Long:  `Stores plays, tags, and artist metadata in a local SQLite database.`,
	Run: func(cmd *cobra.Command, args []string) {
		intervalStr := viper.GetString("refresh-interval")
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			logger.Warn("invalid refresh-interval: %v, using default 30 days", err)
			interval = 24 * 30 * time.Hour
		}

		config := UpdateConfig{
			DbPath:          viper.GetString("database"),
			User:            viper.GetString("user"),
			After:           viper.GetString("after"),
			Force:           viper.GetBool("force"),
			RefreshInterval: interval,
		}

		err = updateDatabase(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	var afterString string
	updateCmd.Flags().StringVar(&afterString, "after", "", "Only get listening data after this date, in yyyy-mm-dd format")
	viper.BindPFlag("after", updateCmd.Flags().Lookup("after"))

	var force bool
	updateCmd.Flags().BoolVarP(&force, "force", "f", false, "Get all listening data, regardless of what's already present (idempotent)")
	viper.BindPFlag("force", updateCmd.Flags().Lookup("force"))

	var refreshInterval string
	updateCmd.Flags().StringVar(&refreshInterval, "refresh-interval", "720h", "Time duration after which to re-fetch tags and artist profiles (e.g., 24h)")
	viper.BindPFlag("refresh-interval", updateCmd.Flags().Lookup("refresh-interval"))
}

func updateDatabase(config UpdateConfig) error {
	var after time.Time
	var err error
	if len(config.After) > 0 {
		after, err = time.Parse("2006-01-02", config.After)
		if err != nil {
			return fmt.Errorf("--after: %w", err)
		}
	}

	user := strings.ToLower(config.User)
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	lastfmClient := lastfm.New(lastFmApiKey, lastFmSecret)
	lastfmClient.SetUserAgent("listen-lens/1.0")

	err = db.CreateUser(user)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	lastUpdated, err := db.GetLastUpdated(user)
	if err != nil {
		return err
	}
	now := time.Now()
	if !lastUpdated.IsZero() && now.Sub(lastUpdated).Hours() < 24 && !config.Force {
		logger.Info("user data was already updated in the past 24 hours")
		return nil
	}

	sessionKey, err := db.GetSessionKey(user)
	if err != nil {
		return err
	}
	if sessionKey != "" {
		lastfmClient.SetSession(sessionKey)
		logger.Debug("using session key for user %q", user)
	}

	latestListen, err := db.GetLatestListen(user)
	if err != nil {
		return fmt.Errorf("getting latest listen: %w", err)
	}

	logger.Info("updating database for %q", user)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)
	page := 1 // First page is 1
	pages := 0
	for {
		var recentTracks lastfm.UserGetRecentTracks
		err := retry.Do(
			func() error {
				var err error
				recentTracks, err = lastfmClient.User.GetRecentTracks(lastfm.P{
					"limit": 200,
					"page":  page,
					"user":  user,
				})
				return err
			},
			retry.RetryIf(isServerError),
		)
		if err != nil {
			return fmt.Errorf("fetching recent tracks: %w", err)
		}

		if pages == 0 {
			pages = recentTracks.TotalPages
		}
		if len(recentTracks.Tracks) == 0 {
			break
		}

		var tracksToImport []store.TrackImport
		var oldestDate time.Time
		for _, t := range recentTracks.Tracks {
			uts, err := strconv.ParseInt(t.Date.Uts, 10, 64)
			if err != nil {
				// Now-playing rows carry no date; skip them.
				continue
			}
			oldestDate = time.Unix(uts, 0)
			tracksToImport = append(tracksToImport, store.TrackImport{
				Artist:    t.Artist.Name,
				Album:     t.Album.Name,
				TrackName: t.Name,
				Date:      oldestDate,
			})
		}

		err = db.AddRecentTracks(user, tracksToImport)
		if err != nil {
			return fmt.Errorf("inserting recent tracks (page %d): %w", page, err)
		}

		logger.Info("downloaded page %v of %v (oldest: %s)", page, pages, oldestDate.Format("2006-01-02"))
		page += 1

		if !after.IsZero() && oldestDate.Before(after) {
			break
		}
		if page > pages {
			break
		}
		if !config.Force && !latestListen.IsZero() && oldestDate.Before(latestListen.AddDate(0, 0, -7)) {
			logger.Info("refreshed back to existing data")
			break
		}

		limiter.Wait(context.Background())
	}

	logger.Info("updating artist tags...")
	if err := updateArtistTags(db, lastfmClient, limiter, config.RefreshInterval); err != nil {
		return fmt.Errorf("updateArtistTags: %w", err)
	}

	logger.Info("updating artist profiles...")
	if err := updateArtistProfiles(db, lastfmClient, limiter, config.RefreshInterval); err != nil {
		return fmt.Errorf("updateArtistProfiles: %w", err)
	}

	logger.Info("updating track info...")
	if err := updateTrackInfo(db, lastfmClient, limiter, user); err != nil {
		return fmt.Errorf("updateTrackInfo: %w", err)
	}

	err = db.SetLastUpdated(user, now)
	if err != nil {
		return err
	}

	return nil
}

func isServerError(err error) bool {
	if lerr, ok := err.(*lastfm.LastfmError); ok {
		if lerr.Code/100 == 5 {
			logger.Warn("last.fm errored, retrying: %v", lerr)
			return true
		}
	}
	return false
}

func updateArtistTags(db *store.Store, client *lastfm.Api, limiter *rate.Limiter, interval time.Duration) error {
	artists, err := db.GetArtistsNeedingTagUpdate(interval)
	if err != nil {
		return err
	}

	logger.Info("found %d artists needing tag updates", len(artists))

	for i, artist := range artists {
		logger.Debug("[%d/%d] fetching tags for artist: %s", i+1, len(artists), artist)
		limiter.Wait(context.Background())

		var topTags lastfm.ArtistGetTopTags
		err := retry.Do(
			func() error {
				var err error
				topTags, err = client.Artist.GetTopTags(lastfm.P{
					"artist":      artist,
					"autocorrect": 1,
				})
				return err
			},
			retry.RetryIf(isServerError),
		)
		if err != nil {
			logger.Warn("fetching tags for artist %s: %v", artist, err)
			continue
		}

		var tags []string
		var counts []int
		for _, t := range topTags.Tags {
			tags = append(tags, t.Name)
			c, _ := strconv.Atoi(t.Count)
			counts = append(counts, c)
		}

		if err := db.SaveArtistTags(artist, tags, counts); err != nil {
			return fmt.Errorf("saving tags for artist %s: %w", artist, err)
		}
	}

	return nil
}

func updateArtistProfiles(db *store.Store, client *lastfm.Api, limiter *rate.Limiter, interval time.Duration) error {
	artists, err := db.GetArtistsNeedingProfileUpdate(interval)
	if err != nil {
		return err
	}

	logger.Info("found %d artists needing profile updates", len(artists))

	for i, artist := range artists {
		logger.Debug("[%d/%d] fetching profile for artist: %s", i+1, len(artists), artist)
		limiter.Wait(context.Background())

		var info lastfm.ArtistGetInfo
		err := retry.Do(
			func() error {
				var err error
				info, err = client.Artist.GetInfo(lastfm.P{
					"artist":      artist,
					"autocorrect": 1,
				})
				return err
			},
			retry.RetryIf(isServerError),
		)
		if err != nil {
			logger.Warn("fetching profile for artist %s: %v", artist, err)
			continue
		}

		listeners, _ := strconv.ParseInt(info.Stats.Listeners, 10, 64)

		if err := db.SaveArtistProfile(artist, popularityFromListeners(listeners), listeners); err != nil {
			return fmt.Errorf("saving profile for artist %s: %w", artist, err)
		}
	}

	return nil
}

func updateTrackInfo(db *store.Store, client *lastfm.Api, limiter *rate.Limiter, user string) error {
	tracks, err := db.TracksNeedingInfo(user)
	if err != nil {
		return err
	}

	logger.Info("found %d tracks needing info", len(tracks))

	for i, tr := range tracks {
		artist, name := tr[0], tr[1]
		logger.Debug("[%d/%d] fetching info for track: %s - %s", i+1, len(tracks), artist, name)
		limiter.Wait(context.Background())

		var info lastfm.TrackGetInfo
		err := retry.Do(
			func() error {
				var err error
				info, err = client.Track.GetInfo(lastfm.P{
					"artist":      artist,
					"track":       name,
					"autocorrect": 1,
				})
				return err
			},
			retry.RetryIf(isServerError),
		)
		if err != nil {
			logger.Warn("fetching info for track %s - %s: %v", artist, name, err)
			continue
		}

		durationMs, _ := strconv.ParseInt(info.Duration, 10, 64)
		playCount, _ := strconv.ParseInt(info.PlayCount, 10, 64)

		if err := db.SetTrackInfo(artist, name, durationMs, popularityFromPlayCount(playCount)); err != nil {
			return fmt.Errorf("saving info for track %s - %s: %w", artist, name, err)
		}
	}

	return nil
}

// popularityFromListeners compresses a raw last.fm listener count onto the
// 0-100 popularity scale, log10 against a ten-million-listener reference.
func popularityFromListeners(listeners int64) int {
	if listeners <= 0 {
		return 0
	}
	pop := math.Log10(float64(listeners)+1) / 7 * 100
	if pop > 100 {
		pop = 100
	}
	return int(math.Round(pop))
}

// popularityFromPlayCount does the same for a track's global play count,
// which runs about a decade hotter than listener counts.
func popularityFromPlayCount(plays int64) int {
	if plays <= 0 {
		return 0
	}
	pop := math.Log10(float64(plays)+1) / 8 * 100
	if pop > 100 {
		pop = 100
	}
	return int(math.Round(pop))
}
