package analysis

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 {
	return &v
}

func approx(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", what, want, got)
	}
}

// makeTracks builds n named tracks, each shaped by the given function.
func makeTracks(n int, shape func(i int, t *Track)) []Track {
	tracks := make([]Track, n)
	for i := range tracks {
		tracks[i] = Track{
			Name:   fmt.Sprintf("Track %d", i),
			Artist: fmt.Sprintf("Artist %d", i),
		}
		if shape != nil {
			shape(i, &tracks[i])
		}
	}
	return tracks
}

func TestMusicalDiversity_evenSpread(t *testing.T) {
	genres := []string{"rock", "jazz", "techno", "folk"}
	tracks := makeTracks(40, func(i int, tr *Track) {
		tr.Genres = []string{genres[i%len(genres)]}
	})

	m := musicalDiversity(tracks, nil)
	approx(t, m.Score, 1.0, "even genre spread")
	if m.Confidence != ConfidenceHigh {
		t.Errorf("Expected high confidence for 40 mapped tracks, got %s", m.Confidence)
	}
}

func TestMusicalDiversity_singleGenre(t *testing.T) {
	tracks := makeTracks(12, func(i int, tr *Track) {
		tr.Genres = []string{"rock"}
	})

	m := musicalDiversity(tracks, nil)
	approx(t, m.Score, 0, "single genre")
	if m.Confidence != ConfidenceLow {
		t.Errorf("Expected low confidence for 12 mapped tracks, got %s", m.Confidence)
	}
}

func TestMusicalDiversity_artistTagFallback(t *testing.T) {
	// Tracks carry no genres themselves; the artist's tags fill in.
	tracks := makeTracks(20, func(i int, tr *Track) {
		tr.Artist = "Sole Artist"
	})
	artists := []Artist{
		{Name: "Sole Artist", Genres: []string{"ambient", "drone"}},
	}

	m := musicalDiversity(tracks, artists)
	if m.Confidence != ConfidenceMedium {
		t.Errorf("Expected all 20 tracks mapped through artist tags, got confidence %s", m.Confidence)
	}
	// Both genres appear equally often, so the distribution is maximally even.
	approx(t, m.Score, 1.0, "two even genres via artist tags")
}

func TestMusicalDiversity_unmappableTracks(t *testing.T) {
	tracks := makeTracks(5, nil)

	m := musicalDiversity(tracks, nil)
	if m.Confidence != ConfidenceInsufficient {
		t.Fatalf("Expected insufficient confidence, got %s", m.Confidence)
	}
	if m.MappedTrackCount != 0 {
		t.Errorf("Expected 0 mapped tracks, got %d", m.MappedTrackCount)
	}
	if m.MinRequired != SampleLow {
		t.Errorf("Expected MinRequired %d, got %d", SampleLow, m.MinRequired)
	}
}

func TestExplorationRate_allUnique(t *testing.T) {
	tracks := makeTracks(20, nil)

	m := explorationRate(tracks)
	approx(t, m.Score, 1.0, "all unique plays")
	if m.Confidence != ConfidenceMedium {
		t.Errorf("Expected medium confidence for 20 tracks, got %s", m.Confidence)
	}
}

func TestExplorationRate_heavyRotation(t *testing.T) {
	tracks := makeTracks(10, func(i int, tr *Track) {
		tr.Name = "Same Track"
		tr.Artist = "Same Artist"
	})

	m := explorationRate(tracks)
	approx(t, m.Score, 0.1, "one track on repeat")
}

func TestTemporalConsistency_fixedHour(t *testing.T) {
	tracks := makeTracks(15, func(i int, tr *Track) {
		tr.PlayedAt = time.Date(2026, 8, 1+i, 8, 30, 0, 0, time.UTC)
	})

	m := temporalConsistency(tracks)
	approx(t, m.Score, 1.0, "same hour every day")
	if m.Confidence != ConfidenceLow {
		t.Errorf("Expected low confidence for 15 timestamped tracks, got %s", m.Confidence)
	}
}

func TestTemporalConsistency_noTimestamps(t *testing.T) {
	tracks := makeTracks(30, nil)

	m := temporalConsistency(tracks)
	if m.Confidence != ConfidenceInsufficient {
		t.Errorf("Tracks without timestamps should not count, got confidence %s", m.Confidence)
	}
}

func TestMainstreamAffinity_bothSignals(t *testing.T) {
	tracks := makeTracks(10, func(i int, tr *Track) {
		tr.Popularity = 80
	})
	// log10(9999+1)/8 = 0.5 exactly.
	artists := []Artist{{Name: "Artist", Followers: 9999}}

	m := mainstreamAffinity(tracks, artists)
	approx(t, m.Score, 0.65, "mean of popularity 0.8 and follower signal 0.5")
}

func TestMainstreamAffinity_popularityOnly(t *testing.T) {
	tracks := makeTracks(10, func(i int, tr *Track) {
		tr.Popularity = 80
	})

	m := mainstreamAffinity(tracks, nil)
	approx(t, m.Score, 0.8, "popularity side alone")
}

func TestMainstreamAffinity_noSignals(t *testing.T) {
	tracks := makeTracks(50, nil)

	m := mainstreamAffinity(tracks, nil)
	approx(t, m.Score, 0, "no popularity or follower data")
	if m.Confidence != ConfidenceInsufficient {
		t.Errorf("Expected insufficient confidence, got %s", m.Confidence)
	}
}

func TestEmotionalVolatility_extremes(t *testing.T) {
	tracks := makeTracks(20, func(i int, tr *Track) {
		if i%2 == 0 {
			tr.Affect = floatPtr(0)
		} else {
			tr.Affect = floatPtr(1)
		}
	})

	m := emotionalVolatility(tracks)
	approx(t, m.Score, 1.0, "alternating extremes")
}

func TestEmotionalVolatility_steady(t *testing.T) {
	tracks := makeTracks(20, func(i int, tr *Track) {
		tr.Affect = floatPtr(0.7)
	})

	m := emotionalVolatility(tracks)
	approx(t, m.Score, 0, "uniform affect")
}

func TestEmotionalVolatility_missingAffectExcluded(t *testing.T) {
	tracks := makeTracks(40, func(i int, tr *Track) {
		if i < 5 {
			tr.Affect = floatPtr(0.5)
		}
	})

	m := emotionalVolatility(tracks)
	if m.Confidence != ConfidenceInsufficient {
		t.Fatalf("Only 5 tracks carry affect, expected insufficient, got %s", m.Confidence)
	}
	if m.MappedTrackCount != 5 {
		t.Errorf("Expected 5 usable tracks, got %d", m.MappedTrackCount)
	}
}

func TestConfidenceFor(t *testing.T) {
	cases := []struct {
		samples int
		want    Confidence
	}{
		{0, ConfidenceInsufficient},
		{9, ConfidenceInsufficient},
		{10, ConfidenceLow},
		{19, ConfidenceLow},
		{20, ConfidenceMedium},
		{39, ConfidenceMedium},
		{40, ConfidenceHigh},
		{500, ConfidenceHigh},
	}
	for _, c := range cases {
		if got := ConfidenceFor(c.samples); got != c.want {
			t.Errorf("ConfidenceFor(%d): expected %s, got %s", c.samples, c.want, got)
		}
	}
}

func TestComputeMetrics_emptyInput(t *testing.T) {
	scores := ComputeMetrics(nil, nil)
	for _, name := range MetricNames {
		m := scores.Get(name)
		if m == nil {
			t.Fatalf("Metric %s missing from empty-input set", name)
		}
		if m.Score != 0 {
			t.Errorf("Metric %s: expected zero score on empty input, got %v", name, m.Score)
		}
		if m.Confidence != ConfidenceInsufficient {
			t.Errorf("Metric %s: expected insufficient confidence on empty input, got %s", name, m.Confidence)
		}
	}
}

func TestBuildPayload_metadata(t *testing.T) {
	tracks := makeTracks(3, func(i int, tr *Track) {
		tr.Genres = []string{"rock"}
	})
	artists := []Artist{
		{Name: "A", Genres: []string{"rock", "jazz"}},
		{Name: "B"},
	}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	payload := BuildPayload(tracks, artists, now)
	if payload.Metadata.TracksAnalyzed != 3 {
		t.Errorf("Expected 3 tracks analyzed, got %d", payload.Metadata.TracksAnalyzed)
	}
	if payload.Metadata.ArtistsAnalyzed != 2 {
		t.Errorf("Expected 2 artists analyzed, got %d", payload.Metadata.ArtistsAnalyzed)
	}
	if payload.Metadata.GenresFound != 2 {
		t.Errorf("Expected 2 distinct genres, got %d", payload.Metadata.GenresFound)
	}
	if !payload.Metadata.GeneratedAt.Equal(now) {
		t.Errorf("Expected GeneratedAt %v, got %v", now, payload.Metadata.GeneratedAt)
	}
}
