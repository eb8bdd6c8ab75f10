package analysis

import "time"

// Confidence grades how reliable a metric is, based purely on the sample
// size that fed it, never on the score itself.
type Confidence string

const (
	ConfidenceHigh         Confidence = "high"
	ConfidenceMedium       Confidence = "medium"
	ConfidenceLow          Confidence = "low"
	ConfidenceInsufficient Confidence = "insufficient"
)

// Metric names, in declared order. The order matters: personality
// classification breaks dominant-type ties by first-declared metric.
const (
	MetricMusicalDiversity    = "musical_diversity"
	MetricExplorationRate     = "exploration_rate"
	MetricTemporalConsistency = "temporal_consistency"
	MetricMainstreamAffinity  = "mainstream_affinity"
	MetricEmotionalVolatility = "emotional_volatility"
)

// MetricNames lists the five metrics in declared order.
var MetricNames = []string{
	MetricMusicalDiversity,
	MetricExplorationRate,
	MetricTemporalConsistency,
	MetricMainstreamAffinity,
	MetricEmotionalVolatility,
}

// Metric is one scored listening dimension. Score is always in [0,1].
// MappedTrackCount and MinRequired are diagnostic counters populated only
// when the sample was too small to be authoritative.
type Metric struct {
	Score            float64    `yaml:"score" json:"score"`
	Confidence       Confidence `yaml:"confidence" json:"confidence"`
	Formula          string     `yaml:"formula" json:"formula"`
	MappedTrackCount int        `yaml:"mapped_track_count,omitempty" json:"mapped_track_count,omitempty"`
	MinRequired      int        `yaml:"min_required,omitempty" json:"min_required,omitempty"`
}

// MetricSet holds the five metrics. Fields are pointers so that a
// partially-populated set is representable; every consumer nil-checks.
type MetricSet struct {
	MusicalDiversity    *Metric `yaml:"musical_diversity" json:"musical_diversity"`
	ExplorationRate     *Metric `yaml:"exploration_rate" json:"exploration_rate"`
	TemporalConsistency *Metric `yaml:"temporal_consistency" json:"temporal_consistency"`
	MainstreamAffinity  *Metric `yaml:"mainstream_affinity" json:"mainstream_affinity"`
	EmotionalVolatility *Metric `yaml:"emotional_volatility" json:"emotional_volatility"`
}

// Get returns the metric with the given name, or nil if absent.
func (m MetricSet) Get(name string) *Metric {
	switch name {
	case MetricMusicalDiversity:
		return m.MusicalDiversity
	case MetricExplorationRate:
		return m.ExplorationRate
	case MetricTemporalConsistency:
		return m.TemporalConsistency
	case MetricMainstreamAffinity:
		return m.MainstreamAffinity
	case MetricEmotionalVolatility:
		return m.EmotionalVolatility
	}
	return nil
}

// Metadata describes the sample an AnalysisPayload was computed from.
type Metadata struct {
	TracksAnalyzed  int       `yaml:"tracks_analyzed" json:"tracks_analyzed"`
	ArtistsAnalyzed int       `yaml:"artists_analyzed" json:"artists_analyzed"`
	GenresFound     int       `yaml:"genres_found" json:"genres_found"`
	GeneratedAt     time.Time `yaml:"generated_at" json:"generated_at"`
}

// AnalysisPayload is the unit of exchange between the metric computation
// module and everything downstream. A new payload replaces the previous one
// wholesale; it is never mutated after construction.
type AnalysisPayload struct {
	Scores   MetricSet `yaml:"scores" json:"scores"`
	Metadata Metadata  `yaml:"metadata" json:"metadata"`
}

// Track is the strict internal record for a single play. Raw provider and
// store rows are mapped into this shape before any metric runs.
type Track struct {
	Name       string
	Artist     string
	Album      string
	DurationMs int64
	PlayedAt   time.Time
	Genres     []string
	Popularity int // 0-100
	// Affect is an optional per-track scalar in [0,1] feeding the emotional
	// volatility metric. The upstream signal is pluggable; AffectFromTags
	// is the default derivation.
	Affect *float64
}

// Artist is the strict internal record for artist metadata.
type Artist struct {
	Name       string
	Genres     []string
	Popularity int // 0-100
	Followers  int64
}
