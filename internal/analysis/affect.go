package analysis

// The emotional volatility metric needs a per-track affect scalar, but
// last.fm exposes nothing like a valence field. This default derivation
// reads affect off a track's mood-ish tags instead. Callers with a better
// upstream signal can set Track.Affect directly and skip this entirely.

var tagAffect = map[string]float64{
	"happy":       0.9,
	"upbeat":      0.85,
	"party":       0.85,
	"dance":       0.8,
	"energetic":   0.8,
	"feel good":   0.8,
	"summer":      0.75,
	"fun":         0.75,
	"uplifting":   0.7,
	"groovy":      0.65,
	"chill":       0.55,
	"dreamy":      0.5,
	"mellow":      0.45,
	"atmospheric": 0.45,
	"ambient":     0.4,
	"melancholic": 0.3,
	"melancholy":  0.3,
	"dark":        0.25,
	"moody":       0.25,
	"sad":         0.2,
	"depressive":  0.15,
	"angry":       0.15,
	"aggressive":  0.1,
}

// AffectFromTags derives an affect scalar from a tag list by averaging the
// known mood tags in it. Returns nil when no tag carries affect, which
// excludes the track from the volatility sample.
func AffectFromTags(tags []string) *float64 {
	sum := 0.0
	n := 0
	for _, t := range cleanGenres(tags) {
		if v, ok := tagAffect[t]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	a := sum / float64(n)
	return &a
}
