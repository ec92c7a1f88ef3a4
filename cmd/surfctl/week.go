package main

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/surf-conditions-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/surf-conditions-service/internal/config"
	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/couchcryptid/surf-conditions-service/internal/observability"
	"github.com/spf13/cobra"
)

func newWeekCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:     "week <slug>",
		Short:   "Fetch and score the daily outlook for a spot",
		Example: "  surfctl week la-torche --days 5",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spot, ok := domain.SpotBySlug(args[0])
			if !ok {
				return fmt.Errorf("unknown spot %q, see 'surfctl spots'", args[0])
			}
			if days < 1 || days > openmeteo.MaxForecastDays {
				return fmt.Errorf("--days must be between 1 and %d", openmeteo.MaxForecastDays)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			client := openmeteo.NewClient(openmeteo.Options{
				MarineURL:  cfg.OpenMeteoMarineURL,
				WeatherURL: cfg.OpenMeteoWeatherURL,
				Timezone:   cfg.OpenMeteoTimezone,
				Timeout:    cfg.OpenMeteoTimeout,
			}, observability.NewUnregisteredMetrics(), logger)

			readings, err := client.Daily(cmd.Context(), spot, days)
			if err != nil {
				return fmt.Errorf("fetch outlook for %s: %w", spot.Slug, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(spot.Name)+" "+mutedStyle.Render(spot.Region))

			assessed := domain.AggregateDays(readings)
			for _, d := range assessed {
				fmt.Fprintf(out, "  %s  %s  %s\n",
					d.Date.Format("Mon 02 Jan"),
					renderResult(d.Result),
					mutedStyle.Render(fmt.Sprintf("%.1fm %.0fs %.0fkm/h", d.Sample.WaveHeightM, d.Sample.WavePeriodS, d.Sample.WindSpeedKmh)),
				)
			}
			if best, ok := domain.BestDay(assessed); ok {
				fmt.Fprintln(out, field("Best day", best.Date.Format("Monday 02 January")+" "+renderResult(best.Result)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 8, "number of forecast days")
	return cmd
}
