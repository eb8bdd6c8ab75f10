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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avmiller/listen-lens/internal/analysis"
	"github.com/avmiller/listen-lens/internal/mood"
	"github.com/avmiller/listen-lens/internal/wellness"
)

const coachTopN = 5

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Fetches wellness recommendations based on your listening profile",
	Long: `Sends your mood-by-day summary, personality, top genres and artists,
and recent tracks to a recommendation service and prints its response.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runCoach()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching recommendations: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(coachCmd)

	var endpoint string
	coachCmd.Flags().StringVar(&endpoint, "endpoint", "", "Recommendation service URL")
	viper.BindPFlag("endpoint", coachCmd.Flags().Lookup("endpoint"))
}

func runCoach() error {
	endpoint := viper.GetString("endpoint")
	if endpoint == "" {
		return fmt.Errorf("--endpoint is required")
	}

	now := time.Now()
	dbPath := viper.GetString("database")

	tracks, _, err := loadDataset(dbPath, now.AddDate(0, 0, -7))
	if err != nil {
		return err
	}

	payload, err := loadPayload(dbPath, now.AddDate(0, -6, 0))
	if err != nil {
		return err
	}

	daily := mood.BuildDaily(tracks, 7, now)
	personality := analysis.Classify(payload)

	// Most recent plays first; the request carries at most a handful.
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].PlayedAt.After(tracks[j].PlayedAt)
	})

	req := wellness.BuildRequest(daily, personality,
		topCounts(tracks, func(t analysis.Track) []string { return t.Genres }),
		topCounts(tracks, func(t analysis.Track) []string { return []string{t.Artist} }),
		tracks)

	client := wellness.NewClient(endpoint)
	resp, err := client.Fetch(context.Background(), req)
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}
	fmt.Println(string(pretty))

	return nil
}

// topCounts tallies the keys produced per track and returns the most
// frequent few, counts descending with first-seen order breaking ties.
func topCounts(tracks []analysis.Track, keys func(analysis.Track) []string) []string {
	counts := make(map[string]int)
	var order []string
	for _, t := range tracks {
		for _, k := range keys(t) {
			if k == "" {
				continue
			}
			if counts[k] == 0 {
				order = append(order, k)
			}
			counts[k]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > coachTopN {
		order = order[:coachTopN]
	}
	return order
}
