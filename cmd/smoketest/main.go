package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"histpattern/internal/client"
	"histpattern/internal/config"
	"histpattern/internal/logging"
	"histpattern/internal/query"
	"histpattern/pkg/model"
)

func main() {
	cfgFile := flag.String("config", config.DefaultPath, "config file path")
	ticker := flag.String("ticker", "SPY", "ticker used for query and price checks")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	api := client.New(client.Options{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Timeout: cfg.API.Timeout,
		Logger:  logging.New(cfg.Log),
	})
	ctx := context.Background()

	fmt.Printf("=== Analytics API Smoke Test (%s) ===\n", cfg.API.BaseURL)
	failures := 0

	check := func(n int, name string, fn func() (string, error)) {
		fmt.Printf("\n[%d] %s\n", n, name)
		start := time.Now()
		summary, err := fn()
		elapsed := time.Since(start)
		if err != nil {
			failures++
			fmt.Printf("    ERROR: %v (%s)\n", err, elapsed.Round(time.Millisecond))
			return
		}
		fmt.Printf("    OK: %s in %s\n", summary, elapsed.Round(time.Millisecond))
	}

	check(1, "GET /health", func() (string, error) {
		h, err := api.Health(ctx)
		if err != nil {
			return "", err
		}
		return "status=" + h.Status, nil
	})

	check(2, "GET /api/tickers", func() (string, error) {
		list, err := api.Tickers(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d indices, %d sectors, %d stocks",
			len(list.MarketIndices), len(list.SectorETFs), len(list.TopStocks)), nil
	})

	check(3, "GET /api/tickers/suggest?q=A", func() (string, error) {
		s, err := api.Suggest(ctx, "A")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d suggestions", len(s)), nil
	})

	check(4, "GET /api/tickers/etf/XLK", func() (string, error) {
		etf, err := api.ETFConstituents(ctx, "XLK")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d constituents", etf.Count), nil
	})

	check(5, "GET /api/prices/"+*ticker, func() (string, error) {
		h, err := api.Prices(ctx, *ticker)
		if err != nil {
			return "", err
		}
		if len(h.Prices) == 0 {
			return "0 bars", nil
		}
		last := h.Prices[len(h.Prices)-1]
		return fmt.Sprintf("%d bars, last %s C=%.2f", len(h.Prices), last.Date, last.Close), nil
	})

	check(6, "POST /api/query", func() (string, error) {
		req, err := query.Normalize(query.Input{
			AssetClass:    model.AssetStocks,
			Ticker:        *ticker,
			ConditionType: model.PercentageChange,
			Direction:     model.Decrease,
			MatchType:     model.MatchGTE,
			Threshold:     "3",
		})
		if err != nil {
			return "", err
		}
		resp, err := api.Query(ctx, req)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: %d instances", resp.Condition, len(resp.Instances)), nil
	})

	if failures > 0 {
		fmt.Printf("\n%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed")
}
