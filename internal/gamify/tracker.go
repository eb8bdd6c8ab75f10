package gamify

import (
	"time"

	"github.com/avmiller/listen-lens/internal/analysis"
	"github.com/avmiller/listen-lens/internal/badges"
	"github.com/avmiller/listen-lens/internal/logger"
)

// Tracker is the gamification state machine. It loads persisted state at
// construction, mutates it as analysis payloads arrive, and writes the
// whole state back before returning from every mutation. Persistence
// failures are logged and the in-memory state stays correct for the
// session.
type Tracker struct {
	store         *Store
	state         *State
	cooldown      time.Duration
	lastRecompute time.Time
}

// NewTracker loads state from the store and prunes stale achievement
// notifications.
func NewTracker(store *Store) (*Tracker, error) {
	return newTrackerAt(store, time.Now())
}

func newTrackerAt(store *Store, now time.Time) (*Tracker, error) {
	st, err := store.Load()
	if err != nil {
		return nil, err
	}
	st.pruneAchievements(now)
	return &Tracker{
		store:    store,
		state:    st,
		cooldown: defaultCooldown,
	}, nil
}

// State returns the current state. Callers treat it as read-only.
func (t *Tracker) State() *State {
	return t.state
}

// Recompute evaluates badges against a new payload, unlocks anything newly
// earned, and refreshes progress, score, and level. Returns the
// achievements created by this call. Re-running with the same payload is
// safe: already-unlocked badges keep their original timestamps and produce
// no new achievements. Calls inside the cooldown window are dropped.
func (t *Tracker) Recompute(payload *analysis.AnalysisPayload) []badges.Achievement {
	return t.recomputeAt(payload, time.Now())
}

func (t *Tracker) recomputeAt(payload *analysis.AnalysisPayload, now time.Time) []badges.Achievement {
	if !t.lastRecompute.IsZero() && now.Sub(t.lastRecompute) < t.cooldown {
		logger.Debug("recompute dropped: within cooldown window")
		return nil
	}
	t.lastRecompute = now

	satisfied := make(map[string]bool)
	for _, id := range badges.Evaluate(payload) {
		satisfied[id] = true
	}

	var unlocked []badges.Achievement
	for i := range t.state.Badges {
		bs := &t.state.Badges[i]
		if bs.Unlocked || !satisfied[bs.ID] {
			continue
		}
		ts := now
		bs.Unlocked = true
		bs.UnlockedAt = &ts
		unlocked = append(unlocked, badges.NewAchievement(bs.Badge, now))
	}
	t.state.RecentAchievements = append(t.state.RecentAchievements, unlocked...)

	// Progress, score, and level refresh whether or not anything unlocked.
	t.state.Progress = computeProgress(payload)
	count := t.state.unlockedCount()
	t.state.TotalScore = count * pointsPerBadge
	t.state.Level = count/badgesPerLevel + 1

	t.persist()
	return unlocked
}

// Dismiss marks the achievement identified by badge id and original
// timestamp as seen. It stays in history. Reports whether a matching
// achievement was found.
func (t *Tracker) Dismiss(badgeID string, timestamp time.Time) bool {
	found := false
	for i := range t.state.RecentAchievements {
		a := &t.state.RecentAchievements[i]
		if a.BadgeID == badgeID && a.Timestamp.Equal(timestamp) {
			a.Seen = true
			found = true
		}
	}
	if found {
		t.persist()
	}
	return found
}

func (t *Tracker) persist() {
	if err := t.store.Save(t.state); err != nil {
		logger.Error("persisting gamification state: %v", err)
	}
}
