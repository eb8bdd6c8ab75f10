package analysis

// PersonalityType is one threshold-triggered label, scored in percent.
type PersonalityType struct {
	Label string  `yaml:"label" json:"label"`
	Score float64 `yaml:"score" json:"score"`
}

// Personality is the classification derived from an AnalysisPayload.
type Personality struct {
	Types      []PersonalityType `yaml:"types" json:"types"`
	Dominant   string            `yaml:"dominant" json:"dominant"`
	Confidence Confidence        `yaml:"confidence" json:"confidence"`
}

const defaultLabel = "Balanced"

// Trigger labels, one per metric in declared order. Volatility also has an
// inverse label for notably steady listeners.
var personalityLabels = map[string]string{
	MetricMusicalDiversity:    "Eclectic",
	MetricExplorationRate:     "Explorer",
	MetricTemporalConsistency: "Creature of Habit",
	MetricMainstreamAffinity:  "Chart Surfer",
	MetricEmotionalVolatility: "Mood Rider",
}

const volatilityInverseLabel = "Steady Listener"

// Classify thresholds each metric score into labels and picks a dominant
// type. A nil or empty payload yields the Balanced default rather than an
// error; this function never panics on missing metrics.
func Classify(payload *AnalysisPayload) Personality {
	if payload == nil {
		return Personality{
			Types:      []PersonalityType{{Label: defaultLabel, Score: 50}},
			Dominant:   defaultLabel,
			Confidence: ConfidenceInsufficient,
		}
	}

	var types []PersonalityType
	for _, name := range MetricNames {
		m := payload.Scores.Get(name)
		if m == nil {
			continue
		}
		pct := m.Score * 100
		if pct >= PersonalityTrigger {
			types = append(types, PersonalityType{Label: personalityLabels[name], Score: pct})
		} else if name == MetricEmotionalVolatility && pct <= PersonalityInverse {
			types = append(types, PersonalityType{Label: volatilityInverseLabel, Score: 100 - pct})
		}
	}

	if len(types) == 0 {
		return Personality{
			Types:      []PersonalityType{{Label: defaultLabel, Score: 50}},
			Dominant:   defaultLabel,
			Confidence: overallConfidence(payload.Scores),
		}
	}

	// Ties keep the first-declared label: strict greater-than only.
	dominant := types[0]
	for _, t := range types[1:] {
		if t.Score > dominant.Score {
			dominant = t
		}
	}

	return Personality{
		Types:      types,
		Dominant:   dominant.Label,
		Confidence: overallConfidence(payload.Scores),
	}
}

// overallConfidence aggregates per-metric confidence: three or more high
// metrics rate high, two highs or three mediums rate medium, anything less
// rates low.
func overallConfidence(scores MetricSet) Confidence {
	highs, mediums := 0, 0
	for _, name := range MetricNames {
		m := scores.Get(name)
		if m == nil {
			continue
		}
		switch m.Confidence {
		case ConfidenceHigh:
			highs++
		case ConfidenceMedium:
			mediums++
		}
	}
	switch {
	case highs >= 3:
		return ConfidenceHigh
	case highs >= 2 || mediums >= 3:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
