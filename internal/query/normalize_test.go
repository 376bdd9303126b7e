package query

import (
	"reflect"
	"testing"

	"histpattern/pkg/model"
)

func TestNormalizeDecisionTable(t *testing.T) {
	tests := []struct {
		name      string
		class     model.AssetClass
		ct        model.ConditionType
		dir       model.Direction
		match     model.MatchType
		wantOp    model.Operator
		wantValue float64
		wantCT    model.ConditionType
	}{
		{"above absolute", model.AssetStocks, model.AbsoluteThreshold, model.Above, "", model.OpGTE, 7.5, model.AbsoluteThreshold},
		{"below absolute", model.AssetStocks, model.AbsoluteThreshold, model.Below, "", model.OpLTE, 7.5, model.AbsoluteThreshold},
		{"above indicator", model.AssetIndicators, model.PercentageChange, model.Above, "", model.OpGTE, 7.5, model.AbsoluteThreshold},
		{"below indicator", model.AssetIndicators, model.AbsoluteThreshold, model.Below, model.MatchGT, model.OpLTE, 7.5, model.AbsoluteThreshold},
		{"increase gt", model.AssetStocks, model.PercentageChange, model.Increase, model.MatchGT, model.OpGT, 7.5, model.PercentageChange},
		{"increase gte", model.AssetStocks, model.PercentageChange, model.Increase, model.MatchGTE, model.OpGTE, 7.5, model.PercentageChange},
		{"increase eq", model.AssetStocks, model.PercentageChange, model.Increase, model.MatchEQ, model.OpEQ, 7.5, model.PercentageChange},
		{"decrease gt", model.AssetStocks, model.PercentageChange, model.Decrease, model.MatchGT, model.OpLT, -7.5, model.PercentageChange},
		{"decrease gte", model.AssetStocks, model.PercentageChange, model.Decrease, model.MatchGTE, model.OpLTE, -7.5, model.PercentageChange},
		{"decrease eq", model.AssetStocks, model.PercentageChange, model.Decrease, model.MatchEQ, model.OpEQ, -7.5, model.PercentageChange},
		{"sector decrease", model.AssetSectors, model.PercentageChange, model.Decrease, model.MatchGTE, model.OpLTE, -7.5, model.PercentageChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Normalize(Input{
				AssetClass:    tt.class,
				Ticker:        "abc",
				ConditionType: tt.ct,
				Direction:     tt.dir,
				MatchType:     tt.match,
				Threshold:     "7.5",
			})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if req.Operator != tt.wantOp {
				t.Errorf("Expected operator %s, got %s", tt.wantOp, req.Operator)
			}
			if req.Threshold != tt.wantValue {
				t.Errorf("Expected threshold %v, got %v", tt.wantValue, req.Threshold)
			}
			if req.ConditionType != tt.wantCT {
				t.Errorf("Expected condition type %s, got %s", tt.wantCT, req.ConditionType)
			}
		})
	}
}

func TestNormalizeScenarios(t *testing.T) {
	// "NVDA fell at least 5%"
	req, err := Normalize(Input{
		Ticker:        "NVDA",
		ConditionType: model.PercentageChange,
		Direction:     model.Decrease,
		MatchType:     model.MatchGTE,
		Threshold:     "5",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Operator != model.OpLTE || req.Threshold != -5 {
		t.Errorf("Expected lte/-5, got %s/%v", req.Operator, req.Threshold)
	}

	// "VIX closed above 30"
	req, err = Normalize(Input{
		AssetClass:    model.AssetIndicators,
		Ticker:        "VIX",
		ConditionType: model.AbsoluteThreshold,
		Direction:     model.Above,
		Threshold:     "30",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Operator != model.OpGTE || req.Threshold != 30 {
		t.Errorf("Expected gte/30, got %s/%v", req.Operator, req.Threshold)
	}
}

func TestNormalizeUppercasesTicker(t *testing.T) {
	req, err := Normalize(Input{
		Ticker:        "  nvda ",
		ConditionType: model.PercentageChange,
		Direction:     model.Increase,
		MatchType:     model.MatchGT,
		Threshold:     "3",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Ticker != "NVDA" {
		t.Errorf("Expected NVDA, got %q", req.Ticker)
	}
}

func TestNormalizeHorizons(t *testing.T) {
	base := Input{
		Ticker:        "SPY",
		ConditionType: model.PercentageChange,
		Direction:     model.Increase,
		MatchType:     model.MatchGT,
		Threshold:     "1",
	}

	req, err := Normalize(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(req.TimeHorizons, model.Horizons) {
		t.Errorf("Expected all horizons by default, got %v", req.TimeHorizons)
	}

	base.Horizons = []model.Horizon{"1y", "1D", "1m", "1y"}
	req, err = Normalize(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []model.Horizon{model.Horizon1D, model.Horizon1M, model.Horizon1Y}
	if !reflect.DeepEqual(req.TimeHorizons, want) {
		t.Errorf("Expected %v, got %v", want, req.TimeHorizons)
	}
}

func TestNormalizeZeroThresholdHasNoNegativeZero(t *testing.T) {
	req, err := Normalize(Input{
		Ticker:        "SPY",
		ConditionType: model.PercentageChange,
		Direction:     model.Decrease,
		MatchType:     model.MatchEQ,
		Threshold:     "0",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Threshold != 0 || 1/req.Threshold < 0 {
		t.Errorf("Expected +0 threshold, got %v", req.Threshold)
	}
}

func TestNormalizeValidation(t *testing.T) {
	valid := Input{
		Ticker:        "NVDA",
		ConditionType: model.PercentageChange,
		Direction:     model.Increase,
		MatchType:     model.MatchGT,
		Threshold:     "5",
	}

	tests := []struct {
		name  string
		mut   func(*Input)
		field string
	}{
		{"empty ticker", func(in *Input) { in.Ticker = "   " }, "ticker"},
		{"missing threshold", func(in *Input) { in.Threshold = "" }, "threshold"},
		{"non-numeric threshold", func(in *Input) { in.Threshold = "five" }, "threshold"},
		{"NaN threshold", func(in *Input) { in.Threshold = "NaN" }, "threshold"},
		{"infinite threshold", func(in *Input) { in.Threshold = "+Inf" }, "threshold"},
		{"negative threshold", func(in *Input) { in.Threshold = "-5" }, "threshold"},
		{"level direction with change", func(in *Input) { in.Direction = model.Above }, "direction"},
		{"change direction with level", func(in *Input) { in.ConditionType = model.AbsoluteThreshold }, "direction"},
		{"change direction for indicator", func(in *Input) { in.AssetClass = model.AssetIndicators }, "direction"},
		{"missing match type", func(in *Input) { in.MatchType = "" }, "match_type"},
		{"unknown match type", func(in *Input) { in.MatchType = "lte" }, "match_type"},
		{"unknown condition", func(in *Input) { in.ConditionType = "ratio" }, "condition_type"},
		{"unknown asset class", func(in *Input) { in.AssetClass = "crypto" }, "asset_class"},
		{"unknown horizon", func(in *Input) { in.Horizons = []model.Horizon{"5y"} }, "time_horizons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mut(&in)

			_, err := Normalize(in)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, ve.Field)
			}
			if !IsValidationError(err) {
				t.Error("IsValidationError should report true")
			}
		})
	}
}

func TestParseHorizons(t *testing.T) {
	got := ParseHorizons(" 1d, ,1w,")
	want := []model.Horizon{"1d", "1w"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
