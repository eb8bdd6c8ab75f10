// Package recap computes the rolling 4-week listening recap: total minutes,
// top genre, and top album for the last 28 days against the 28 days before
// that. All functions are pure and tolerate empty input.
package recap

import (
	"fmt"
	"math"
	"time"
)

// NoBaseline is the sentinel percentage-change value used when the previous
// period has no listening to compare against.
const NoBaseline = "N/A"

const periodDays = 28

// PlayEvent is one play with enough metadata to aggregate.
type PlayEvent struct {
	Track      string
	Artist     string
	Album      string
	Genres     []string
	DurationMs int64
	PlayedAt   time.Time
}

// TopAlbum identifies an album by name and primary artist.
type TopAlbum struct {
	Name   string `yaml:"name" json:"name"`
	Artist string `yaml:"artist" json:"artist"`
}

// PeriodStats aggregates a single 28-day window.
type PeriodStats struct {
	Minutes  float64   `yaml:"minutes" json:"minutes"`
	TopGenre string    `yaml:"top_genre,omitempty" json:"top_genre,omitempty"`
	TopAlbum *TopAlbum `yaml:"top_album,omitempty" json:"top_album,omitempty"`
}

// Stats is the full recap: this period, the previous one, and the change
// between them.
type Stats struct {
	This             PeriodStats `yaml:"this_period" json:"this_period"`
	Previous         PeriodStats `yaml:"previous_period" json:"previous_period"`
	PercentageChange string      `yaml:"percentage_change" json:"percentage_change"`
}

// Calculate partitions events into the last 28 days and the 28 days before
// that, relative to now, and aggregates each window. Events outside both
// windows are ignored. Nil or empty input yields a zero result with the
// no-baseline sentinel; it never fails.
func Calculate(events []PlayEvent, now time.Time) Stats {
	thisStart := now.AddDate(0, 0, -periodDays)
	prevStart := now.AddDate(0, 0, -2*periodDays)

	var thisPeriod, prevPeriod []PlayEvent
	for _, e := range events {
		switch {
		case e.PlayedAt.After(now):
			// Clock skew upstream; not part of either window.
		case e.PlayedAt.After(thisStart):
			thisPeriod = append(thisPeriod, e)
		case e.PlayedAt.After(prevStart):
			prevPeriod = append(prevPeriod, e)
		}
	}

	stats := Stats{
		This:     aggregate(thisPeriod),
		Previous: aggregate(prevPeriod),
	}
	stats.PercentageChange = percentageChange(stats.This.Minutes, stats.Previous.Minutes)
	return stats
}

func aggregate(events []PlayEvent) PeriodStats {
	var ms int64
	genreCounts := make(map[string]int)
	var genreOrder []string
	albumCounts := make(map[string]int)
	var albumOrder []string
	albumsByKey := make(map[string]TopAlbum)

	for _, e := range events {
		ms += e.DurationMs
		for _, g := range e.Genres {
			if genreCounts[g] == 0 {
				genreOrder = append(genreOrder, g)
			}
			genreCounts[g]++
		}
		if e.Album != "" {
			key := e.Album + "\x00" + e.Artist
			if albumCounts[key] == 0 {
				albumOrder = append(albumOrder, key)
				albumsByKey[key] = TopAlbum{Name: e.Album, Artist: e.Artist}
			}
			albumCounts[key]++
		}
	}

	stats := PeriodStats{
		Minutes:  float64(ms) / 60000,
		TopGenre: mostFrequent(genreCounts, genreOrder),
	}
	if key := mostFrequent(albumCounts, albumOrder); key != "" {
		album := albumsByKey[key]
		stats.TopAlbum = &album
	}
	return stats
}

// mostFrequent picks the highest-count key; ties keep the first key
// encountered, matching the descending-count ordering the recap view shows.
func mostFrequent(counts map[string]int, order []string) string {
	best := ""
	bestCount := 0
	for _, k := range order {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}

// percentageChange renders the minutes delta as a signed whole percentage.
// A zero baseline yields the NoBaseline sentinel, never a division.
func percentageChange(current, previous float64) string {
	if previous == 0 {
		return NoBaseline
	}
	pct := int(math.Round((current - previous) / previous * 100))
	if pct > 0 {
		return fmt.Sprintf("+%d%%", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}

// FormatMinutes renders a fractional minute count for display, rounding
// half away from zero. Exactly one minute reads singular.
func FormatMinutes(minutes float64) string {
	rounded := int(math.Round(minutes))
	if rounded == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", rounded)
}
