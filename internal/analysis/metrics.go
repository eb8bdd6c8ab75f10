package analysis

import (
	"math"
	"time"
)

// ComputeMetrics derives the five listening metrics from normalized track
// and artist records. Each metric computes its own usable sample size and
// grades its confidence from that alone. Empty input degrades to zero
// scores with insufficient confidence; it never fails.
func ComputeMetrics(tracks []Track, artists []Artist) MetricSet {
	tracks = NormalizeTracks(tracks)
	artists = NormalizeArtists(artists)

	return MetricSet{
		MusicalDiversity:    musicalDiversity(tracks, artists),
		ExplorationRate:     explorationRate(tracks),
		TemporalConsistency: temporalConsistency(tracks),
		MainstreamAffinity:  mainstreamAffinity(tracks, artists),
		EmotionalVolatility: emotionalVolatility(tracks),
	}
}

// BuildPayload computes the full MetricSet and wraps it with sample
// metadata stamped at now.
func BuildPayload(tracks []Track, artists []Artist, now time.Time) *AnalysisPayload {
	tracks = NormalizeTracks(tracks)
	artists = NormalizeArtists(artists)

	genres := make(map[string]bool)
	for _, t := range tracks {
		for _, g := range t.Genres {
			genres[g] = true
		}
	}
	for _, a := range artists {
		for _, g := range a.Genres {
			genres[g] = true
		}
	}

	return &AnalysisPayload{
		Scores: ComputeMetrics(tracks, artists),
		Metadata: Metadata{
			TracksAnalyzed:  len(tracks),
			ArtistsAnalyzed: len(artists),
			GenresFound:     len(genres),
			GeneratedAt:     now,
		},
	}
}

// newMetric assembles a Metric, grading confidence from the sample size and
// attaching diagnostic counters when the sample was too small.
func newMetric(score float64, samples int, formula string) *Metric {
	m := &Metric{
		Score:      clamp01(score),
		Confidence: ConfidenceFor(samples),
		Formula:    formula,
	}
	if m.Confidence == ConfidenceInsufficient {
		m.MappedTrackCount = samples
		m.MinRequired = SampleLow
	}
	return m
}

// musicalDiversity is the Shannon entropy of the genre frequency
// distribution, normalized by log2 of the unique genre count. A track
// counts toward the sample when it resolves to at least one genre, either
// through its own tags or through its artist's tags.
func musicalDiversity(tracks []Track, artists []Artist) *Metric {
	const formula = "shannon_entropy(genre_distribution) / log2(unique_genres)"

	byArtist := make(map[string][]string, len(artists))
	for _, a := range artists {
		byArtist[a.Name] = a.Genres
	}

	counts := make(map[string]int)
	mapped := 0
	for _, t := range tracks {
		genres := t.Genres
		if len(genres) == 0 {
			genres = byArtist[t.Artist]
		}
		if len(genres) == 0 {
			continue
		}
		mapped++
		for _, g := range genres {
			counts[g]++
		}
	}

	if len(counts) <= 1 {
		return newMetric(0, mapped, formula)
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	score := entropy / math.Log2(float64(len(counts)))
	return newMetric(score, mapped, formula)
}

// explorationRate measures how much of the sample is distinct material:
// (unique artists + unique tracks) / (2 * plays), clamped to [0,1].
func explorationRate(tracks []Track) *Metric {
	const formula = "(unique_artists + unique_tracks) / (2 * total_tracks)"

	if len(tracks) == 0 {
		return newMetric(0, 0, formula)
	}
	uniqueArtists := make(map[string]bool)
	uniqueTracks := make(map[string]bool)
	for _, t := range tracks {
		uniqueArtists[t.Artist] = true
		uniqueTracks[t.Artist+"\x00"+t.Name] = true
	}
	score := float64(len(uniqueArtists)+len(uniqueTracks)) / float64(2*len(tracks))
	return newMetric(score, len(tracks), formula)
}

// temporalConsistency scores how regular the listening hour-of-day is:
// 1 / (1 + variance(hour)/100). A flat routine scores near 1.
func temporalConsistency(tracks []Track) *Metric {
	const formula = "1 / (1 + variance(listen_hour) / 100)"

	var hours []float64
	for _, t := range tracks {
		if t.PlayedAt.IsZero() {
			continue
		}
		hours = append(hours, float64(t.PlayedAt.Hour()))
	}
	if len(hours) == 0 {
		return newMetric(0, 0, formula)
	}
	score := 1 / (1 + variance(hours)/100)
	return newMetric(score, len(hours), formula)
}

// mainstreamAffinity averages mean track popularity with a log-scaled
// transform of artist follower counts. Follower counts are compressed with
// log10 against a 10^8 reference so that global-scale artists map near 1.
func mainstreamAffinity(tracks []Track, artists []Artist) *Metric {
	const formula = "mean(track_popularity/100, log10(followers)/8)"

	var popSum float64
	popped := 0
	for _, t := range tracks {
		if t.Popularity > 0 {
			popSum += float64(t.Popularity) / 100
			popped++
		}
	}

	var followSum float64
	followed := 0
	for _, a := range artists {
		if a.Followers > 0 {
			followSum += clamp01(math.Log10(float64(a.Followers)+1) / 8)
			followed++
		}
	}

	samples := popped + followed
	switch {
	case popped > 0 && followed > 0:
		return newMetric((popSum/float64(popped)+followSum/float64(followed))/2, samples, formula)
	case popped > 0:
		return newMetric(popSum/float64(popped), samples, formula)
	case followed > 0:
		return newMetric(followSum/float64(followed), samples, formula)
	default:
		return newMetric(0, 0, formula)
	}
}

// emotionalVolatility is the root-mean-square deviation of each track's
// affect scalar from the sample mean. RMS deviation of values in [0,1]
// peaks at 0.5, so the score is the RMS doubled: 0 is stable, 1 swings
// between extremes.
func emotionalVolatility(tracks []Track) *Metric {
	const formula = "2 * rms_deviation(track_affect)"

	var affects []float64
	for _, t := range tracks {
		if t.Affect == nil {
			continue
		}
		affects = append(affects, *t.Affect)
	}
	if len(affects) == 0 {
		return newMetric(0, 0, formula)
	}

	mean := 0.0
	for _, a := range affects {
		mean += a
	}
	mean /= float64(len(affects))

	sq := 0.0
	for _, a := range affects {
		sq += (a - mean) * (a - mean)
	}
	rms := math.Sqrt(sq / float64(len(affects)))
	return newMetric(rms*2, len(affects), formula)
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sq := 0.0
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return sq / float64(len(values))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
