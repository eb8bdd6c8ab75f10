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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avmiller/listen-lens/internal/gamify"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Shows analysis completeness, score, and pending achievements",
	Run: func(cmd *cobra.Command, args []string) {
		err := runProgress()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error showing progress: %v\n", err)
			os.Exit(1)
		}
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss <badge-id> <timestamp>",
	Short: "Marks an achievement notification as seen",
	Long: `Marks the achievement identified by badge id and RFC 3339 timestamp
as seen. The achievement stays in history.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runDismiss(args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error dismissing achievement: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.AddCommand(dismissCmd)

	var rangeToken string
	progressCmd.Flags().StringVar(&rangeToken, "range", rangeMediumTerm, "Time range: short_term, medium_term, or long_term")
	viper.BindPFlag("progress-range", progressCmd.Flags().Lookup("range"))
}

func runProgress() error {
	start, err := parseRangeToken(viper.GetString("progress-range"), time.Now())
	if err != nil {
		return err
	}

	payload, err := loadPayload(viper.GetString("database"), start)
	if err != nil {
		return err
	}

	tracker, err := newTracker()
	if err != nil {
		return err
	}
	tracker.Recompute(payload)
	state := tracker.State()

	results := [][]string{{"Dimension", "Progress", "%"}}
	for _, p := range []gamify.ProgressMetric{
		state.Progress.Tracks,
		state.Progress.Artists,
		state.Progress.Genres,
		state.Progress.Confidence,
	} {
		results = append(results, []string{
			p.Label,
			fmt.Sprintf("%d / %d", p.Current, p.Target),
			fmt.Sprintf("%.0f%%", p.Percentage),
		})
	}

	report := Report{
		results: results,
		summary: fmt.Sprintf("Overall: %.0f%%  Score: %d  Level: %d",
			state.Progress.Overall, state.TotalScore, state.Level),
	}
	fmt.Print(report)

	unseen := 0
	for _, a := range state.RecentAchievements {
		if a.Seen {
			continue
		}
		unseen++
		fmt.Printf("%s %s (dismiss with: progress dismiss %s %s)\n",
			a.Title, a.Message, a.BadgeID, a.Timestamp.Format(time.RFC3339))
	}
	if unseen == 0 {
		fmt.Println("No pending achievements.")
	}

	return nil
}

func runDismiss(badgeID string, timestampArg string) error {
	timestamp, err := time.Parse(time.RFC3339, timestampArg)
	if err != nil {
		return fmt.Errorf("parsing timestamp: %w", err)
	}

	tracker, err := newTracker()
	if err != nil {
		return err
	}
	if !tracker.Dismiss(badgeID, timestamp) {
		return fmt.Errorf("no achievement for badge %q at %s", badgeID, timestampArg)
	}

	fmt.Println("Dismissed.")
	return nil
}
