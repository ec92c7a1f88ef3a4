package main

import (
	"fmt"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var wave, period, wind, gust float64

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a reading given on the command line",
		Long:  "Score a reading. Every field is optional; a missing field counts as 0.",
		Example: "  surfctl score --wave 1.2 --period 12 --wind 8 --gust 15\n" +
			"  surfctl score --wave 4",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var raw domain.RawReading
			flags := cmd.Flags()
			if flags.Changed("wave") {
				raw.WaveHeightM = domain.Float(wave)
			}
			if flags.Changed("period") {
				raw.WavePeriodS = domain.Float(period)
			}
			if flags.Changed("wind") {
				raw.WindSpeedKmh = domain.Float(wind)
			}
			if flags.Changed("gust") {
				raw.WindGustKmh = domain.Float(gust)
			}

			sample := domain.NormalizeSample(raw)
			result := domain.Assess(sample)
			signal := domain.ClassifySignal(sample)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderResult(result))
			fmt.Fprintln(out, field("Sample", fmt.Sprintf("wave %.1f m, period %.0f s, wind %.0f km/h, gust %.0f km/h",
				sample.WaveHeightM, sample.WavePeriodS, sample.WindSpeedKmh, sample.WindGustKmh)))
			fmt.Fprintln(out, field("Signal", qualityStyle(result.Quality).Render(string(signal.Kind))+" "+mutedStyle.Render(signal.Reason)))
			fmt.Fprintln(out, field("Advice", signal.Recommendation))
			fmt.Fprintln(out, field("Why", domain.ExplainConditions(sample)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&wave, "wave", 0, "wave height in metres")
	cmd.Flags().Float64Var(&period, "period", 0, "wave period in seconds")
	cmd.Flags().Float64Var(&wind, "wind", 0, "sustained wind in km/h")
	cmd.Flags().Float64Var(&gust, "gust", 0, "wind gusts in km/h")
	return cmd
}
