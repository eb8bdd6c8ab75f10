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
	"gopkg.in/yaml.v3"

	"github.com/avmiller/listen-lens/internal/analysis"
)

// AnalysisReport is the YAML document emitted by the analyze command.
type AnalysisReport struct {
	Scores      analysis.MetricSet   `yaml:"scores"`
	Personality analysis.Personality `yaml:"personality"`
	Highlights  []string             `yaml:"highlights"`
	Metadata    analysis.Metadata    `yaml:"metadata"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Computes listening metrics and a personality classification",
	Long: `Scores your listening history on five normalized dimensions and
classifies it into a listening personality. Emits a YAML report.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyze()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error analyzing: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	var rangeToken string
	analyzeCmd.Flags().StringVar(&rangeToken, "range", rangeMediumTerm, "Time range: short_term, medium_term, or long_term")
	viper.BindPFlag("analyze-range", analyzeCmd.Flags().Lookup("range"))
}

func runAnalyze() error {
	start, err := parseRangeToken(viper.GetString("analyze-range"), time.Now())
	if err != nil {
		return err
	}

	payload, err := loadPayload(viper.GetString("database"), start)
	if err != nil {
		return err
	}

	personality := analysis.Classify(payload)

	var highlights []string
	for _, name := range analysis.MetricNames {
		m := payload.Scores.Get(name)
		if m == nil || m.Confidence == analysis.ConfidenceInsufficient {
			continue
		}
		highlights = append(highlights, analysis.MetricCopy(name, m.Score))
	}

	report := AnalysisReport{
		Scores:      payload.Scores,
		Personality: personality,
		Highlights:  highlights,
		Metadata:    payload.Metadata,
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	err = encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	tracker, err := newTracker()
	if err != nil {
		return err
	}
	for _, unlocked := range tracker.Recompute(payload) {
		fmt.Printf("\n%s %s\n", unlocked.Title, unlocked.Message)
	}

	return nil
}
