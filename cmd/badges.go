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

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Evaluates and lists listening badges",
	Long: `Recomputes badge unlocks against the current listening metrics and
prints the full badge catalog with unlock status. Unlocks are permanent.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runBadges()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error evaluating badges: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(badgesCmd)

	var rangeToken string
	badgesCmd.Flags().StringVar(&rangeToken, "range", rangeMediumTerm, "Time range: short_term, medium_term, or long_term")
	viper.BindPFlag("badges-range", badgesCmd.Flags().Lookup("range"))
}

func runBadges() error {
	start, err := parseRangeToken(viper.GetString("badges-range"), time.Now())
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

	for _, unlocked := range tracker.Recompute(payload) {
		fmt.Printf("%s %s\n", unlocked.Title, unlocked.Message)
	}

	state := tracker.State()
	results := [][]string{{"Badge", "Rarity", "Status", "Description"}}
	for _, b := range state.Badges {
		results = append(results, []string{
			fmt.Sprintf("%s %s", b.Emoji, b.Name),
			string(b.Rarity),
			badgeStatus(b),
			b.Description,
		})
	}

	report := Report{
		results: results,
		summary: fmt.Sprintf("Score: %d  Level: %d", state.TotalScore, state.Level),
	}
	fmt.Print(report)

	return nil
}

func badgeStatus(b gamify.BadgeStatus) string {
	if !b.Unlocked {
		return "locked"
	}
	if b.UnlockedAt == nil {
		return "unlocked"
	}
	return fmt.Sprintf("unlocked %s", b.UnlockedAt.Format("2006-01-02"))
}
