package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"histpattern/internal/assetclass"
	"histpattern/internal/render"
	"histpattern/internal/suggest"
	"histpattern/pkg/model"
)

var (
	sAssetClass string
	sInterval   time.Duration
)

func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Replay typed text from stdin through the ticker autocomplete",
		Long: `Each stdin line is the full text of the ticker box after a keystroke.
A line of the form ":class <asset-class>" switches the active asset class.
The suggestion list is printed every time a newer result is applied.

Example:
  printf 'N\nNV\nNVD\n' | histpattern suggest --interval 100ms`,
		RunE: runSuggest,
	}

	cmd.Flags().StringVar(&sAssetClass, "asset-class", string(model.AssetStocks), "active asset class")
	cmd.Flags().DurationVar(&sInterval, "interval", 0, "pause between lines, to simulate typing speed")

	return cmd
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	class := model.AssetClass(strings.ToLower(sAssetClass))
	if !assetclass.IsValid(class) {
		return fmt.Errorf("unknown asset class %q", sAssetClass)
	}

	ctx, cancel := signalContext()
	defer cancel()
	a.loadRegistry(ctx)

	applied := make(chan struct{}, 1)
	s := suggest.New(a.api, a.registry, class, suggest.Options{
		Delay:    a.cfg.Suggest.Debounce,
		MinChars: a.cfg.Suggest.MinChars,
		Logger:   a.logger,
		Recorder: a.metrics,
		OnUpdate: func(list []model.TickerSuggestion) {
			if format == "json" {
				render.JSON(os.Stdout, model.SuggestResponse{Suggestions: list})
			} else {
				fmt.Printf("[%s]\n", time.Now().Format("15:04:05.000"))
				render.Suggestions(os.Stdout, list)
			}
			select {
			case applied <- struct{}{}:
			default:
			}
		},
	})
	defer s.Close()

	scanner := bufio.NewScanner(os.Stdin)
	var last string
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Text()
		if rest, ok := strings.CutPrefix(line, ":class "); ok {
			next := model.AssetClass(strings.ToLower(strings.TrimSpace(rest)))
			if !assetclass.IsValid(next) {
				return fmt.Errorf("unknown asset class %q", rest)
			}
			s.SetAssetClass(next)
			last = ""
			continue
		}
		last = line
		s.Type(line)
		if sInterval > 0 {
			time.Sleep(sInterval)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	if strings.TrimSpace(last) == "" {
		return nil
	}

	// Let the final lookup land before exiting
	drain(applied)
	select {
	case <-applied:
	case <-time.After(a.cfg.Suggest.Debounce + a.cfg.API.Timeout):
	case <-ctx.Done():
	}
	return nil
}

func drain(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
