// Package mood aggregates plays into per-day mood summaries and derives
// window-level insights from them.
package mood

import (
	"math"
	"time"

	"github.com/avmiller/listen-lens/internal/analysis"
)

// DailyMoodData is one calendar day's aggregate. A MoodScore of 0 is the
// no-data sentinel; real scores run 1–100.
type DailyMoodData struct {
	Date       string             `yaml:"date" json:"date"`
	DayName    string             `yaml:"day_name" json:"day_name"`
	MoodScore  int                `yaml:"mood_score" json:"mood_score"`
	TrackCount int                `yaml:"track_count" json:"track_count"`
	Scores     map[string]float64 `yaml:"scores" json:"scores"`
	Insight    string             `yaml:"insight" json:"insight"`
	TopGenres  []string           `yaml:"top_genres,omitempty" json:"top_genres,omitempty"`
}

// MoodInsights summarizes a window of daily mood data.
type MoodInsights struct {
	AverageMood float64 `yaml:"average_mood" json:"average_mood"`
	HighestDay  string  `yaml:"highest_day,omitempty" json:"highest_day,omitempty"`
	LowestDay   string  `yaml:"lowest_day,omitempty" json:"lowest_day,omitempty"`
	TotalDays   int     `yaml:"total_days" json:"total_days"`
}

const topGenreLimit = 3

// BuildDaily groups tracks by calendar day over the `days` ending at now
// and aggregates each day. Days without plays appear with the no-data
// sentinel so the window is always fully populated, oldest first.
func BuildDaily(tracks []analysis.Track, days int, now time.Time) []DailyMoodData {
	tracks = analysis.NormalizeTracks(tracks)

	byDay := make(map[string][]analysis.Track)
	for _, t := range tracks {
		if t.PlayedAt.IsZero() {
			continue
		}
		byDay[t.PlayedAt.Format("2006-01-02")] = append(byDay[t.PlayedAt.Format("2006-01-02")], t)
	}

	out := make([]DailyMoodData, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		date := day.Format("2006-01-02")
		out = append(out, buildDay(date, day.Weekday().String(), byDay[date]))
	}
	return out
}

func buildDay(date, dayName string, tracks []analysis.Track) DailyMoodData {
	d := DailyMoodData{
		Date:       date,
		DayName:    dayName,
		TrackCount: len(tracks),
		Scores:     map[string]float64{},
	}
	if len(tracks) == 0 {
		return d
	}

	scores := analysis.ComputeMetrics(tracks, nil)
	for _, name := range analysis.MetricNames {
		if m := scores.Get(name); m != nil {
			d.Scores[name] = m.Score
		}
	}
	d.MoodScore = moodScore(tracks)
	d.Insight = dayInsight(d.Scores)
	d.TopGenres = topGenres(tracks, topGenreLimit)
	return d
}

// moodScore maps the day's mean affect into 1–100. Days where no track
// carries an affect signal keep the 0 sentinel.
func moodScore(tracks []analysis.Track) int {
	sum := 0.0
	n := 0
	for _, t := range tracks {
		if t.Affect == nil {
			continue
		}
		sum += *t.Affect
		n++
	}
	if n == 0 {
		return 0
	}
	score := int(math.Round(sum / float64(n) * 100))
	if score < 1 {
		score = 1
	}
	return score
}

// dayInsight reads the copy for the day's most distinctive dimension, the
// metric furthest from the midpoint.
func dayInsight(scores map[string]float64) string {
	best := ""
	bestDist := -1.0
	for _, name := range analysis.MetricNames {
		s, ok := scores[name]
		if !ok {
			continue
		}
		if dist := math.Abs(s - 0.5); dist > bestDist {
			best = name
			bestDist = dist
		}
	}
	if best == "" {
		return ""
	}
	return analysis.MetricCopy(best, scores[best])
}

func topGenres(tracks []analysis.Track, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, t := range tracks {
		for _, g := range t.Genres {
			if counts[g] == 0 {
				order = append(order, g)
			}
			counts[g]++
		}
	}
	// Selection by repeated max keeps first-encountered ordering on ties.
	var out []string
	for len(out) < limit {
		best := ""
		bestCount := 0
		for _, g := range order {
			if counts[g] > bestCount {
				best = g
				bestCount = counts[g]
			}
		}
		if best == "" {
			break
		}
		out = append(out, best)
		counts[best] = 0
	}
	return out
}

// Summarize derives window-level insights. Sentinel (no-data) days are
// excluded from the average and the extremes but still bound the window.
func Summarize(days []DailyMoodData) MoodInsights {
	insights := MoodInsights{}
	sum := 0
	for _, d := range days {
		if d.MoodScore == 0 {
			continue
		}
		insights.TotalDays++
		sum += d.MoodScore
		if insights.HighestDay == "" || d.MoodScore > highestScore(days, insights.HighestDay) {
			insights.HighestDay = d.Date
		}
		if insights.LowestDay == "" || d.MoodScore < highestScore(days, insights.LowestDay) {
			insights.LowestDay = d.Date
		}
	}
	if insights.TotalDays > 0 {
		insights.AverageMood = math.Round(float64(sum)/float64(insights.TotalDays)*10) / 10
	}
	return insights
}

func highestScore(days []DailyMoodData, date string) int {
	for _, d := range days {
		if d.Date == date {
			return d.MoodScore
		}
	}
	return 0
}
