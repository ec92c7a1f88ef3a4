package main

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

func newRootCmd(clock clockwork.Clock) *cobra.Command {
	root := &cobra.Command{
		Use:          "surfctl",
		Short:        "Surf conditions from the terminal",
		Long:         "surfctl scores wave, period and wind readings and shows the estimated tide for the Atlantic coast spots.",
		SilenceUsage: true,
	}

	root.AddCommand(newScoreCmd())
	root.AddCommand(newTideCmd(clock))
	root.AddCommand(newSpotsCmd())
	root.AddCommand(newWeekCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "surfctl", version)
		},
	})
	return root
}
