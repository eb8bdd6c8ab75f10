package analysis

// All tunable thresholds live here so the rule set stays auditable in one
// place. Badge and personality evaluation import these rather than carrying
// their own copies.
const (
	// Confidence buckets, inclusive at the lower bound.
	SampleHigh   = 40
	SampleMedium = 20
	SampleLow    = 10

	// Metric score thresholds for badge rules.
	ScoreHigh = 0.8 // single-metric high badges require score > ScoreHigh
	ScoreLow  = 0.2 // single-metric low badges require score < ScoreLow

	// Personality label triggers, in percent.
	PersonalityTrigger = 60
	PersonalityInverse = 40 // volatility only

	// Metric copy tiers.
	CopyLowMax  = 0.34 // score <= CopyLowMax reads as low-tier copy
	CopyHighMin = 0.68 // score >= CopyHighMin reads as high-tier copy

	// Volume badge.
	VolumeTrackCount = 100
)

// ConfidenceFor buckets a usable sample size into a confidence grade.
func ConfidenceFor(samples int) Confidence {
	switch {
	case samples >= SampleHigh:
		return ConfidenceHigh
	case samples >= SampleMedium:
		return ConfidenceMedium
	case samples >= SampleLow:
		return ConfidenceLow
	default:
		return ConfidenceInsufficient
	}
}
