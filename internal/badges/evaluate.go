package badges

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avmiller/listen-lens/internal/analysis"
)

// Evaluate returns the ids of every badge the payload currently satisfies.
// Rules are independent; a payload may satisfy many at once. Missing
// metrics simply fail the rules that reference them — a partial payload
// never causes a panic.
func Evaluate(payload *analysis.AnalysisPayload) []string {
	if payload == nil {
		return nil
	}
	s := payload.Scores

	var ids []string
	add := func(id string, ok bool) {
		if ok {
			ids = append(ids, id)
		}
	}

	// Single-metric extremes, one badge per direction.
	add(BadgeGenreHopper, above(s.MusicalDiversity, analysis.ScoreHigh))
	add(BadgeOneLane, below(s.MusicalDiversity, analysis.ScoreLow))
	add(BadgeTrailblazer, above(s.ExplorationRate, analysis.ScoreHigh))
	add(BadgeComfortLoop, below(s.ExplorationRate, analysis.ScoreLow))
	add(BadgeClockwork, above(s.TemporalConsistency, analysis.ScoreHigh))
	add(BadgeFreeSpirit, below(s.TemporalConsistency, analysis.ScoreLow))
	add(BadgeChartRider, above(s.MainstreamAffinity, analysis.ScoreHigh))
	add(BadgeCrateDigger, below(s.MainstreamAffinity, analysis.ScoreLow))
	add(BadgeMoodPendulum, above(s.EmotionalVolatility, analysis.ScoreHigh))
	add(BadgeEvenKeel, below(s.EmotionalVolatility, analysis.ScoreLow))

	// Every metric at high confidence.
	add(BadgeFullSignal, allHighConfidence(s))

	// Sample volume.
	add(BadgeCenturyListener, payload.Metadata.TracksAnalyzed >= analysis.VolumeTrackCount)

	// Combination rules: the thresholds are inclusive, so a pair of exactly
	// 0.8 scores earns the combination badge even though neither single
	// extreme badge fires.
	add(BadgeSonicNomad,
		atLeast(s.MusicalDiversity, analysis.ScoreHigh) && atLeast(s.ExplorationRate, analysis.ScoreHigh))
	add(BadgeZenRoutine,
		atLeast(s.TemporalConsistency, analysis.ScoreHigh) && atMost(s.EmotionalVolatility, analysis.ScoreLow))
	add(BadgeUndergroundMap,
		atMost(s.MainstreamAffinity, analysis.ScoreLow) && atLeast(s.ExplorationRate, analysis.ScoreHigh))

	return ids
}

func above(m *analysis.Metric, threshold float64) bool {
	return m != nil && m.Score > threshold
}

func below(m *analysis.Metric, threshold float64) bool {
	return m != nil && m.Score < threshold
}

func atLeast(m *analysis.Metric, threshold float64) bool {
	return m != nil && m.Score >= threshold
}

func atMost(m *analysis.Metric, threshold float64) bool {
	return m != nil && m.Score <= threshold
}

func allHighConfidence(s analysis.MetricSet) bool {
	for _, name := range analysis.MetricNames {
		m := s.Get(name)
		if m == nil || m.Confidence != analysis.ConfidenceHigh {
			return false
		}
	}
	return true
}

// Achievement is the notification record created when a badge transitions
// from locked to unlocked. Only Seen is ever mutated afterwards.
type Achievement struct {
	ID        string    `json:"id"`
	BadgeID   string    `json:"badgeId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Seen      bool      `json:"seen"`
}

// NewAchievement builds the unlock notification for a badge.
func NewAchievement(badge Badge, now time.Time) Achievement {
	return Achievement{
		ID:        uuid.NewString(),
		BadgeID:   badge.ID,
		Title:     fmt.Sprintf("Badge Unlocked: %s!", badge.Name),
		Message:   badge.Description,
		Timestamp: now,
		Seen:      false,
	}
}
