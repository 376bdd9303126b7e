package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analytics service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			status, err := a.api.Health(ctx)
			if err != nil {
				color.Red("✗ %s unreachable", a.cfg.API.BaseURL)
				return err
			}
			color.Green("✓ %s: %s", a.cfg.API.BaseURL, status.Status)
			return nil
		},
	}
}
