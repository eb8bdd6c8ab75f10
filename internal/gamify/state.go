// Package gamify owns the mutable, persisted gamification state: badge
// unlock status, the achievement notification queue, analysis progress,
// score, and level. Everything else in the analytics layer is pure; this
// package is where state changes happen and get written to disk.
package gamify

import (
	"time"

	"github.com/avmiller/listen-lens/internal/analysis"
	"github.com/avmiller/listen-lens/internal/badges"
)

// BadgeStatus overlays per-user unlock state onto a catalog badge.
// UnlockedAt records the first unlock and never changes afterwards.
type BadgeStatus struct {
	badges.Badge
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// ProgressMetric is one dimension of analysis completeness.
type ProgressMetric struct {
	Current    int     `json:"current"`
	Target     int     `json:"target"`
	Label      string  `json:"label"`
	Percentage float64 `json:"percentage"`
}

// AnalysisProgress is the weighted completion view: how close the sample
// is to a fully confident analysis.
type AnalysisProgress struct {
	Tracks     ProgressMetric `json:"tracks"`
	Artists    ProgressMetric `json:"artists"`
	Genres     ProgressMetric `json:"genres"`
	Confidence ProgressMetric `json:"confidence"`
	Overall    float64        `json:"overall"`
}

// State is the full persisted gamification object. It is serialized
// wholesale under a single key on every mutation.
type State struct {
	Badges             []BadgeStatus        `json:"badges"`
	RecentAchievements []badges.Achievement `json:"recentAchievements"`
	Progress           AnalysisProgress     `json:"progress"`
	TotalScore         int                  `json:"totalScore"`
	Level              int                  `json:"level"`
}

// Progress targets. Hitting every target puts each dimension at 100%.
const (
	targetTracks     = 50
	targetArtists    = 20
	targetGenres     = 15
	targetConfidence = 5 // metrics at high or medium confidence

	weightTracks     = 0.4
	weightArtists    = 0.2
	weightGenres     = 0.2
	weightConfidence = 0.2
)

// Badge scoring: flat value per unlock, three unlocks per level.
const (
	pointsPerBadge  = 100
	badgesPerLevel  = 3
	achievementTTL  = 24 * time.Hour
	defaultCooldown = 3 * time.Second
)

// newState returns a State with the full catalog locked and zeroed
// progress.
func newState() *State {
	catalog := badges.Catalog()
	st := &State{
		Badges:             make([]BadgeStatus, 0, len(catalog)),
		RecentAchievements: []badges.Achievement{},
		Level:              1,
	}
	for _, b := range catalog {
		st.Badges = append(st.Badges, BadgeStatus{Badge: b})
	}
	st.Progress = computeProgress(nil)
	return st
}

// unlockedCount counts unlocked badges.
func (st *State) unlockedCount() int {
	n := 0
	for _, b := range st.Badges {
		if b.Unlocked {
			n++
		}
	}
	return n
}

// syncCatalog reconciles a loaded state with the compiled-in catalog:
// badges added since the state was written appear locked, renamed copy is
// refreshed, and unlock status is carried over by id.
func (st *State) syncCatalog() {
	unlocked := make(map[string]*BadgeStatus, len(st.Badges))
	for i := range st.Badges {
		unlocked[st.Badges[i].ID] = &st.Badges[i]
	}

	catalog := badges.Catalog()
	merged := make([]BadgeStatus, 0, len(catalog))
	for _, b := range catalog {
		bs := BadgeStatus{Badge: b}
		if prev, ok := unlocked[b.ID]; ok {
			bs.Unlocked = prev.Unlocked
			bs.UnlockedAt = prev.UnlockedAt
		}
		merged = append(merged, bs)
	}
	st.Badges = merged
	if st.RecentAchievements == nil {
		st.RecentAchievements = []badges.Achievement{}
	}
}

// pruneAchievements drops achievements older than the notification TTL
// from the active queue. Badge unlock status is never pruned.
func (st *State) pruneAchievements(now time.Time) {
	kept := st.RecentAchievements[:0]
	for _, a := range st.RecentAchievements {
		if now.Sub(a.Timestamp) <= achievementTTL {
			kept = append(kept, a)
		}
	}
	st.RecentAchievements = kept
}

// computeProgress derives the weighted completion view from a payload's
// sample metadata. A nil payload yields all-zero progress.
func computeProgress(payload *analysis.AnalysisPayload) AnalysisProgress {
	var tracks, artists, genres, confident int
	if payload != nil {
		tracks = payload.Metadata.TracksAnalyzed
		artists = payload.Metadata.ArtistsAnalyzed
		genres = payload.Metadata.GenresFound
		for _, name := range analysis.MetricNames {
			m := payload.Scores.Get(name)
			if m == nil {
				continue
			}
			if m.Confidence == analysis.ConfidenceHigh || m.Confidence == analysis.ConfidenceMedium {
				confident++
			}
		}
	}

	p := AnalysisProgress{
		Tracks:     progressMetric(tracks, targetTracks, "Tracks analyzed"),
		Artists:    progressMetric(artists, targetArtists, "Artists analyzed"),
		Genres:     progressMetric(genres, targetGenres, "Genres found"),
		Confidence: progressMetric(confident, targetConfidence, "Confident metrics"),
	}
	p.Overall = p.Tracks.Percentage*weightTracks +
		p.Artists.Percentage*weightArtists +
		p.Genres.Percentage*weightGenres +
		p.Confidence.Percentage*weightConfidence
	return p
}

func progressMetric(current, target int, label string) ProgressMetric {
	pct := float64(current) / float64(target) * 100
	if pct > 100 {
		pct = 100
	}
	return ProgressMetric{
		Current:    current,
		Target:     target,
		Label:      label,
		Percentage: pct,
	}
}
