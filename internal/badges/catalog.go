// Package badges defines the static badge catalog and the pure evaluation
// of which badges an analysis payload satisfies. Unlock persistence lives
// in the gamify package; nothing here holds state.
package badges

// Rarity ranks how hard a badge is to earn. It is display-only; scoring
// treats every badge the same.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Badge IDs.
const (
	BadgeGenreHopper     = "genre_hopper"
	BadgeOneLane         = "one_lane"
	BadgeTrailblazer     = "trailblazer"
	BadgeComfortLoop     = "comfort_loop"
	BadgeClockwork       = "clockwork"
	BadgeFreeSpirit      = "free_spirit"
	BadgeChartRider      = "chart_rider"
	BadgeCrateDigger     = "crate_digger"
	BadgeMoodPendulum    = "mood_pendulum"
	BadgeEvenKeel        = "even_keel"
	BadgeFullSignal      = "full_signal"
	BadgeCenturyListener = "century_listener"
	BadgeSonicNomad      = "sonic_nomad"
	BadgeZenRoutine      = "zen_routine"
	BadgeUndergroundMap  = "underground_map"
)

// Badge is a static catalog entry. The catalog is immutable after startup;
// per-user unlock status is overlaid at evaluation time by the gamify
// tracker.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Rarity      Rarity `json:"rarity"`
	Requirement string `json:"requirement"`
}

var catalog = []Badge{
	{
		ID: BadgeGenreHopper, Name: "Genre Hopper",
		Description: "Your genre spread is wide open",
		Emoji:       "🎨", Rarity: RarityRare,
		Requirement: "musical diversity above 0.8",
	},
	{
		ID: BadgeOneLane, Name: "One Lane",
		Description: "One sound, mastered",
		Emoji:       "🛤️", Rarity: RarityRare,
		Requirement: "musical diversity below 0.2",
	},
	{
		ID: BadgeTrailblazer, Name: "Trailblazer",
		Description: "Nearly everything you play is new ground",
		Emoji:       "🧭", Rarity: RarityRare,
		Requirement: "exploration rate above 0.8",
	},
	{
		ID: BadgeComfortLoop, Name: "Comfort Loop",
		Description: "The same beloved tracks, on repeat",
		Emoji:       "🔁", Rarity: RarityCommon,
		Requirement: "exploration rate below 0.2",
	},
	{
		ID: BadgeClockwork, Name: "Clockwork",
		Description: "Your listening schedule never wavers",
		Emoji:       "⏰", Rarity: RarityRare,
		Requirement: "temporal consistency above 0.8",
	},
	{
		ID: BadgeFreeSpirit, Name: "Free Spirit",
		Description: "No schedule survives contact with your queue",
		Emoji:       "🦋", Rarity: RarityCommon,
		Requirement: "temporal consistency below 0.2",
	},
	{
		ID: BadgeChartRider, Name: "Chart Rider",
		Description: "You and the charts move as one",
		Emoji:       "📈", Rarity: RarityCommon,
		Requirement: "mainstream affinity above 0.8",
	},
	{
		ID: BadgeCrateDigger, Name: "Crate Digger",
		Description: "You live far below the charts",
		Emoji:       "📦", Rarity: RarityEpic,
		Requirement: "mainstream affinity below 0.2",
	},
	{
		ID: BadgeMoodPendulum, Name: "Mood Pendulum",
		Description: "Your playlists swing between extremes",
		Emoji:       "🎭", Rarity: RarityRare,
		Requirement: "emotional volatility above 0.8",
	},
	{
		ID: BadgeEvenKeel, Name: "Even Keel",
		Description: "One emotional register, perfectly held",
		Emoji:       "🌊", Rarity: RarityRare,
		Requirement: "emotional volatility below 0.2",
	},
	{
		ID: BadgeFullSignal, Name: "Full Signal",
		Description: "Every metric reads at full confidence",
		Emoji:       "📡", Rarity: RarityEpic,
		Requirement: "all five metrics at high confidence",
	},
	{
		ID: BadgeCenturyListener, Name: "Century Listener",
		Description: "A hundred tracks fed the analysis",
		Emoji:       "💯", Rarity: RarityCommon,
		Requirement: "100 or more tracks analyzed",
	},
	{
		ID: BadgeSonicNomad, Name: "Sonic Nomad",
		Description: "Wide tastes and a hunger for the unheard",
		Emoji:       "🌍", Rarity: RarityLegendary,
		Requirement: "high diversity and high exploration together",
	},
	{
		ID: BadgeZenRoutine, Name: "Zen Routine",
		Description: "Steady hours, steady moods",
		Emoji:       "🧘", Rarity: RarityLegendary,
		Requirement: "high temporal consistency with low volatility",
	},
	{
		ID: BadgeUndergroundMap, Name: "Underground Map",
		Description: "Charting territory the charts never reach",
		Emoji:       "🗺️", Rarity: RarityLegendary,
		Requirement: "low mainstream affinity with high exploration",
	},
}

// Catalog returns a copy of the full badge catalog in declared order.
func Catalog() []Badge {
	out := make([]Badge, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the badge with the given id.
func Lookup(id string) (Badge, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
