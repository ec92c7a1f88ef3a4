package main

import (
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

func newTideCmd(clock clockwork.Clock) *cobra.Command {
	var (
		at    string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "tide",
		Short: "Show the estimated tide",
		Long:  "Show the estimated tide direction and the countdown to the next change. " + domain.TideDisclaimer,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
				printTide(out, domain.EstimateTide(t))
				return nil
			}

			printTide(out, domain.EstimateTide(clock.Now()))
			if !watch {
				return nil
			}

			ticker := clock.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case now := <-ticker.Chan():
					printTide(out, domain.EstimateTide(now))
				}
			}
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "estimate at this RFC3339 instant instead of now")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh every second until interrupted")
	cmd.MarkFlagsMutuallyExclusive("at", "watch")
	return cmd
}

func printTide(w io.Writer, p domain.TidePhase) {
	fmt.Fprintf(w, "%s %s %s\n",
		titleStyle.Render("Tide"),
		p.Label(),
		mutedStyle.Render(fmt.Sprintf("(%.0f%% through, estimate)", p.PhaseFraction*100)),
	)
}
