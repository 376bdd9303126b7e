package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"histpattern/internal/form"
	"histpattern/internal/presenter"
	"histpattern/internal/query"
	"histpattern/internal/render"
	"histpattern/internal/session"
	"histpattern/pkg/model"
)

var (
	qTicker     string
	qAssetClass string
	qCondition  string
	qDirection  string
	qMatch      string
	qThreshold  string
	qHorizons   string
	qPage       int
	qPageSize   int
	qChart      bool
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find dates matching a condition and show forward returns",
		Long: `Find every date on which a condition held.

Direction decides the sign; --threshold is always a magnitude.
Indicators (VIX, PCR, ...) only support --direction above/below.

Examples:
  histpattern query --ticker NVDA --direction increase --match gt --threshold 5
  histpattern query --ticker SPY --direction decrease --threshold 3 --horizons 1d,1w
  histpattern query --ticker VIX --direction above --threshold 30 --format json`,
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&qTicker, "ticker", "", "ticker symbol (required)")
	cmd.Flags().StringVar(&qAssetClass, "asset-class", "", "asset class: stocks, indicators, commodities, sectors (default: from ticker)")
	cmd.Flags().StringVar(&qCondition, "condition", "", "condition type: percentage_change, absolute_threshold")
	cmd.Flags().StringVar(&qDirection, "direction", "", "direction: increase, decrease, above, below")
	cmd.Flags().StringVar(&qMatch, "match", string(model.MatchGTE), "match type for increase/decrease: gte, gt, eq")
	cmd.Flags().StringVar(&qThreshold, "threshold", "", "threshold magnitude (required)")
	cmd.Flags().StringVar(&qHorizons, "horizons", "", "comma-separated horizons: 1d,1w,1m,1y (default: all)")
	cmd.Flags().IntVar(&qPage, "page", 0, "results page, starting at 0")
	cmd.Flags().IntVar(&qPageSize, "page-size", 0, "rows per page: 10, 25, 50, 100 (default: config)")
	cmd.Flags().BoolVar(&qChart, "chart", false, "also load the price chart for the ticker")
	cmd.MarkFlagRequired("ticker")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	p := presenter.NewPaginator()
	size := a.cfg.Results.PageSize
	if qPageSize > 0 {
		size = qPageSize
	}
	if err := p.SetPageSize(size); err != nil {
		return err
	}
	p.SetPage(qPage)

	in := form.Resolve(a.registry, form.Fields{
		AssetClass:    model.AssetClass(qAssetClass),
		Ticker:        qTicker,
		ConditionType: model.ConditionType(qCondition),
		Direction:     model.Direction(qDirection),
		MatchType:     model.MatchType(qMatch),
		Threshold:     qThreshold,
		Horizons:      query.ParseHorizons(qHorizons),
	})

	// Validate before showing any progress
	if _, err := query.Normalize(in); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sess := session.New(a.api, session.Options{
		ChartWindow: a.cfg.Results.ChartWindow,
		Logger:      a.logger,
		Recorder:    a.metrics,
	})

	stop := func() {}
	if format != "json" {
		stop = render.StartSpinner("Searching history")
	}
	snap, err := sess.Submit(ctx, in)
	stop()
	if err != nil {
		return err
	}

	view := presenter.BuildView(snap.Response, p)

	if format == "json" {
		out := struct {
			Request model.QueryRequest `json:"request"`
			View    presenter.View     `json:"view"`
			Chart   *presenter.Chart   `json:"chart,omitempty"`
		}{Request: snap.Request, View: view}
		if qChart {
			cv := sess.Chart(ctx, snap.Request.Ticker)
			if cv.Err == nil {
				out.Chart = &cv.Chart
			}
		}
		return render.JSON(os.Stdout, out)
	}

	if err := render.Results(os.Stdout, view); err != nil {
		return err
	}

	if qChart {
		fmt.Println()
		cv := sess.Chart(ctx, snap.Request.Ticker)
		if cv.Err != nil {
			fmt.Fprintf(os.Stderr, "Chart: %s\n", cv.Message)
			return nil
		}
		return render.Chart(os.Stdout, cv.Chart)
	}
	return nil
}
