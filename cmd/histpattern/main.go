package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"histpattern/internal/assetclass"
	"histpattern/internal/client"
	"histpattern/internal/config"
	"histpattern/internal/logging"
	"histpattern/internal/metrics"
	"histpattern/internal/query"
)

var (
	cfgFile string
	apiURL  string
	apiKey  string
	format  string
	verbose bool
)

// app bundles what every command needs
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	api      *client.Client
	registry *assetclass.Registry
	metrics  *metrics.Recorder
	gatherer *prometheus.Registry
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "histpattern",
		Short: "Search historical market patterns and their forward returns",
		Long: `histpattern asks the pattern analytics service for every date on which a
condition held and shows the forward returns that followed.

Examples:
  histpattern query --ticker NVDA --direction decrease --match gte --threshold 5
  histpattern query --ticker VIX --threshold 30 --horizons 1w,1m
  histpattern suggest --asset-class sectors < keystrokes.txt
  histpattern serve --port 8080`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "analytics service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "analytics service API key (overrides config)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "output format: table, json")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(
		newQueryCmd(),
		newSuggestCmd(),
		newTickersCmd(),
		newETFCmd(),
		newPricesCmd(),
		newHealthCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errorMessage(err))
		os.Exit(1)
	}
}

// setup loads configuration and wires the client
func setup() (*app, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Override config with CLI flags
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if apiKey != "" {
		cfg.API.Key = apiKey
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewWithRegistry(reg)

	api := client.New(client.Options{
		BaseURL:    cfg.API.BaseURL,
		APIKey:     cfg.API.Key,
		Timeout:    cfg.API.Timeout,
		RateLimits: cfg.API.RateLimits.PerOperation(),
		Logger:     logger,
		Recorder:   rec,
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		api:      api,
		registry: assetclass.Default(),
		metrics:  rec,
		gatherer: reg,
	}, nil
}

// loadRegistry replaces the built-in catalog with the service's ticker list
func (a *app) loadRegistry(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.API.Timeout)
	defer cancel()
	a.registry = assetclass.Load(ctx, a.api, a.logger)
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func errorMessage(err error) string {
	var ve *query.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		return apiErr.UserMessage()
	}
	return err.Error()
}
