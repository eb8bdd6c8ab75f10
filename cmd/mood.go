/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avmiller/listen-lens/internal/mood"
)

var moodCmd = &cobra.Command{
	Use:   "mood [date | start end]",
	Short: "Shows a daily mood summary derived from listening history",
	Long: `Aggregates plays into a per-day mood summary. With no arguments the
last --days days are shown. A single yyyy, yyyy-mm, or yyyy-mm-dd argument
covers that year, month, or day; two arguments give an explicit range.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runMood(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building mood summary: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(moodCmd)

	var days int
	moodCmd.Flags().IntVar(&days, "days", 7, "Number of days to summarize")
	viper.BindPFlag("days", moodCmd.Flags().Lookup("days"))
}

func runMood(args []string) error {
	start, days, last, err := moodWindow(args, viper.GetInt("days"), time.Now())
	if err != nil {
		return err
	}

	tracks, _, err := loadDataset(viper.GetString("database"), start)
	if err != nil {
		return err
	}

	daily := mood.BuildDaily(tracks, days, last)
	insights := mood.Summarize(daily)

	results := [][]string{{"Day", "Date", "Mood", "Tracks", "Top genres", "Insight"}}
	for _, d := range daily {
		moodCell := "-"
		if d.MoodScore > 0 {
			moodCell = strconv.Itoa(d.MoodScore)
		}
		results = append(results, []string{
			d.DayName,
			d.Date,
			moodCell,
			strconv.Itoa(d.TrackCount),
			strings.Join(d.TopGenres, ", "),
			d.Insight,
		})
	}

	summary := "No listening data in this window."
	if insights.TotalDays > 0 {
		summary = fmt.Sprintf("Average mood: %.1f  Highest: %s  Lowest: %s",
			insights.AverageMood, insights.HighestDay, insights.LowestDay)
	}

	report := Report{
		results: results,
		summary: summary,
	}
	fmt.Print(report)

	return nil
}

// moodWindow resolves the summary window: positional date arguments win,
// otherwise the trailing defaultDays ending at now. Returns the load
// cut-off, the day count, and the last day of the window.
func moodWindow(args []string, defaultDays int, now time.Time) (start time.Time, days int, last time.Time, err error) {
	if len(args) == 0 {
		if defaultDays < 1 {
			err = fmt.Errorf("--days must be at least 1")
			return
		}
		return now.AddDate(0, 0, -defaultDays), defaultDays, now, nil
	}

	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return
	}
	if !end.After(start) {
		err = fmt.Errorf("end date must be after start date")
		return
	}

	days = int(end.Sub(start).Hours() / 24)
	last = end.AddDate(0, 0, -1)
	return
}
