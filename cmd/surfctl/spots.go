package main

import (
	"fmt"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/spf13/cobra"
)

func newSpotsCmd() *cobra.Command {
	var cameras bool

	cmd := &cobra.Command{
		Use:   "spots",
		Short: "List the spot catalog",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			region := ""
			for _, s := range domain.Spots() {
				if s.Region != region {
					region = s.Region
					fmt.Fprintln(out, titleStyle.Render(region))
				}
				fmt.Fprintf(out, "  %-28s %s\n", s.Slug, s.Name)
				if cameras {
					fmt.Fprintf(out, "  %-28s %s\n", "", mutedStyle.Render(s.CameraLink()))
				}
			}
		},
	}

	cmd.Flags().BoolVar(&cameras, "cameras", false, "include webcam links")
	return cmd
}
