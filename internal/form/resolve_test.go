package form

import (
	"testing"

	"histpattern/internal/assetclass"
	"histpattern/internal/query"
	"histpattern/pkg/model"
)

func TestResolveDefaultsFromTicker(t *testing.T) {
	in := Resolve(assetclass.Default(), Fields{Ticker: "VIX", Threshold: "30"})

	if in.AssetClass != model.AssetIndicators {
		t.Errorf("AssetClass = %s, want indicators", in.AssetClass)
	}
	if in.ConditionType != model.AbsoluteThreshold || in.Direction != model.Above {
		t.Errorf("condition/direction = %s/%s, want absolute_threshold/above", in.ConditionType, in.Direction)
	}

	req, err := query.Normalize(in)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if req.Operator != model.OpGTE || req.Threshold != 30 {
		t.Errorf("request = %+v, want gte 30", req)
	}
}

func TestResolveStockDefaults(t *testing.T) {
	in := Resolve(assetclass.Default(), Fields{Ticker: "nvda", Direction: model.Decrease, Threshold: "5"})

	req, err := query.Normalize(in)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if req.ConditionType != model.PercentageChange || req.Operator != model.OpLTE || req.Threshold != -5 {
		t.Errorf("request = %+v, want percentage_change lte -5", req)
	}
	if len(req.TimeHorizons) != 4 {
		t.Errorf("horizons = %v, want all four", req.TimeHorizons)
	}
}

func TestResolveKeepsExplicitInvalidValues(t *testing.T) {
	in := Resolve(assetclass.Default(), Fields{
		AssetClass: model.AssetIndicators,
		Ticker:     "VIX",
		Direction:  model.Increase,
		Threshold:  "5",
	})
	if in.Direction != model.Increase {
		t.Errorf("Direction = %s, explicit value should pass through", in.Direction)
	}
	if _, err := query.Normalize(in); !query.IsValidationError(err) {
		t.Errorf("expected validation error for increase on indicators, got %v", err)
	}
}
