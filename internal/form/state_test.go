package form

import (
	"testing"

	"histpattern/internal/assetclass"
	"histpattern/internal/query"
	"histpattern/pkg/model"
)

func TestSelectIndicatorForcesLevelCondition(t *testing.T) {
	s := New()
	s.Direction = model.Decrease

	s = s.SelectAssetClass(model.AssetIndicators)

	if s.ConditionType != model.AbsoluteThreshold {
		t.Errorf("Expected absolute_threshold, got %s", s.ConditionType)
	}
	if s.Direction != model.Above {
		t.Errorf("Expected direction above, got %s", s.Direction)
	}
}

func TestSelectStocksAfterIndicatorKeepsValidState(t *testing.T) {
	s := New().SelectAssetClass(model.AssetIndicators).SetDirection(model.Below)
	s = s.SelectAssetClass(model.AssetStocks)

	// absolute threshold is still allowed for stocks, so below survives
	if s.ConditionType != model.AbsoluteThreshold || s.Direction != model.Below {
		t.Errorf("Expected absolute_threshold/below, got %s/%s", s.ConditionType, s.Direction)
	}
}

func TestSetConditionTypeReconcilesDirection(t *testing.T) {
	s := New()
	s = s.SetConditionType(model.AbsoluteThreshold)
	if s.Direction != model.Above {
		t.Errorf("Expected above after switching to absolute, got %s", s.Direction)
	}

	s = s.SetConditionType(model.PercentageChange)
	if s.Direction != model.Increase {
		t.Errorf("Expected increase after switching to percentage, got %s", s.Direction)
	}
}

func TestIndicatorRejectsPercentageChange(t *testing.T) {
	s := New().SelectAssetClass(model.AssetIndicators)
	s = s.SetConditionType(model.PercentageChange)
	if s.ConditionType != model.AbsoluteThreshold {
		t.Errorf("Indicators must stay on absolute_threshold, got %s", s.ConditionType)
	}
}

func TestSetDirectionOutsideDomainIgnored(t *testing.T) {
	s := New().SetDirection(model.Below)
	if s.Direction != model.Increase {
		t.Errorf("Expected direction unchanged, got %s", s.Direction)
	}
	if !s.ShowsMatchType() {
		t.Error("Match type should be shown for increase")
	}
}

func TestSelectTickerClassifies(t *testing.T) {
	s := New().SelectTicker(assetclass.Default(), "vix")
	if s.AssetClass != model.AssetIndicators {
		t.Fatalf("Expected indicators, got %s", s.AssetClass)
	}
	if s.Direction != model.Above || s.ShowsMatchType() {
		t.Errorf("Expected above without match type, got %s", s.Direction)
	}
}

func TestInputNormalizes(t *testing.T) {
	s := New().SelectTicker(assetclass.Default(), "vix")
	s.Threshold = "30"

	req, err := query.Normalize(s.Input())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Ticker != "VIX" || req.Operator != model.OpGTE || req.Threshold != 30 {
		t.Errorf("Unexpected request: %+v", req)
	}
}

func TestTransitionTableCoversAllClasses(t *testing.T) {
	for _, class := range model.AssetClasses {
		if _, ok := transitions[class]; !ok {
			t.Errorf("No transition rule for %s", class)
		}
	}
}
