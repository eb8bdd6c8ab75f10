package analysis

// Display copy for each metric by score tier. Lookup is a pure function of
// (metric name, score); unknown metric names fall back to generic copy.

type copyTiers struct {
	low    string
	medium string
	high   string
}

var metricCopy = map[string]copyTiers{
	MetricMusicalDiversity: {
		low:    "You know what you like and you stick to it.",
		medium: "You keep a home base but wander into new genres.",
		high:   "Your library refuses to be pinned to a genre.",
	},
	MetricExplorationRate: {
		low:    "Heavy rotation: the same tracks, again and again.",
		medium: "A steady mix of old favorites and fresh finds.",
		high:   "Almost every play is something new.",
	},
	MetricTemporalConsistency: {
		low:    "You listen whenever the mood strikes.",
		medium: "Loose habits: some regular sessions, some surprises.",
		high:   "Your listening runs like clockwork.",
	},
	MetricMainstreamAffinity: {
		low:    "Deep cuts and obscurities are your territory.",
		medium: "One foot in the charts, one in the underground.",
		high:   "You ride the wave of what everyone is playing.",
	},
	MetricEmotionalVolatility: {
		low:    "Your soundtrack holds a steady emotional line.",
		medium: "Your moods shift, and your music follows.",
		high:   "From euphoria to heartbreak in a single session.",
	},
}

var genericCopy = copyTiers{
	low:    "On the quiet end of this dimension.",
	medium: "Somewhere in the middle of this dimension.",
	high:   "Far out on this dimension.",
}

// MetricCopy returns the display copy for a metric at a given score.
// Scores at or below CopyLowMax read low, at or above CopyHighMin read
// high, anything between reads medium.
func MetricCopy(metric string, score float64) string {
	tiers, ok := metricCopy[metric]
	if !ok {
		tiers = genericCopy
	}
	switch {
	case score <= CopyLowMax:
		return tiers.low
	case score >= CopyHighMin:
		return tiers.high
	default:
		return tiers.medium
	}
}
