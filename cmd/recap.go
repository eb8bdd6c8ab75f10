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

	"github.com/avmiller/listen-lens/internal/recap"
)

var recapCmd = &cobra.Command{
	Use:   "recap",
	Short: "Shows a 4-week listening recap with trend against the prior period",
	Run: func(cmd *cobra.Command, args []string) {
		err := runRecap()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building recap: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(recapCmd)
}

func runRecap() error {
	now := time.Now()
	// Two periods back covers both the current and the baseline window.
	events, err := loadPlayEvents(viper.GetString("database"), now.AddDate(0, 0, -56))
	if err != nil {
		return err
	}

	stats := recap.Calculate(events, now)

	report := Report{
		results: [][]string{
			{"", "Last 4 weeks", "Previous 4 weeks"},
			{"Listening time", recap.FormatMinutes(stats.This.Minutes), recap.FormatMinutes(stats.Previous.Minutes)},
			{"Top genre", orDash(stats.This.TopGenre), orDash(stats.Previous.TopGenre)},
			{"Top album", formatAlbum(stats.This.TopAlbum), formatAlbum(stats.Previous.TopAlbum)},
		},
		summary: fmt.Sprintf("Listening time change: %s", stats.PercentageChange),
	}
	fmt.Print(report)

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatAlbum(album *recap.TopAlbum) string {
	if album == nil || album.Name == "" {
		return "-"
	}
	if album.Artist == "" {
		return album.Name
	}
	return fmt.Sprintf("%s - %s", album.Name, album.Artist)
}
