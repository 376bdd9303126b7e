package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"histpattern/internal/presenter"
	"histpattern/internal/render"
	"histpattern/internal/session"
)

var pWindow int

func newPricesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices TICKER",
		Short: "Show the recent daily closes for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			window := a.cfg.Results.ChartWindow
			if cmd.Flags().Changed("window") {
				window = pWindow
			}
			sess := session.New(a.api, session.Options{ChartWindow: window, Logger: a.logger})

			view := sess.Chart(ctx, strings.ToUpper(args[0]))
			if view.Err != nil {
				return errors.New(view.Message)
			}
			if format == "json" {
				return render.JSON(os.Stdout, view.Chart)
			}
			return render.Chart(os.Stdout, view.Chart)
		},
	}

	cmd.Flags().IntVar(&pWindow, "window", presenter.DefaultChartWindow, "number of most recent bars to keep")
	return cmd
}
