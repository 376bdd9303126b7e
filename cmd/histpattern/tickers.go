package main

import (
	"os"

	"github.com/spf13/cobra"

	"histpattern/internal/render"
)

func newTickersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tickers",
		Short: "List the tickers the analytics service supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			list, err := a.api.Tickers(ctx)
			if err != nil {
				return err
			}
			if format == "json" {
				return render.JSON(os.Stdout, list)
			}
			return render.Tickers(os.Stdout, list)
		},
	}
}

func newETFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "etf SYMBOL",
		Short: "Show the constituents of a sector ETF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			etf, err := a.api.ETFConstituents(ctx, args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return render.JSON(os.Stdout, etf)
			}
			render.ETF(os.Stdout, etf)
			return nil
		},
	}
}
