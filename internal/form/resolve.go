package form

import (
	"strings"

	"histpattern/internal/assetclass"
	"histpattern/internal/query"
	"histpattern/pkg/model"
)

// Fields is a partially filled form as sent by a CLI or HTTP caller.
// Empty fields take the value the state machine would show.
type Fields struct {
	AssetClass    model.AssetClass    `json:"asset_class"`
	Ticker        string              `json:"ticker"`
	ConditionType model.ConditionType `json:"condition_type"`
	Direction     model.Direction     `json:"direction"`
	MatchType     model.MatchType     `json:"match_type"`
	Threshold     string              `json:"threshold"`
	Horizons      []model.Horizon     `json:"horizons"`
}

// Resolve fills the blanks in f from the form defaults for its asset class
// (or the ticker's class when none is given). Explicit values are passed
// through untouched so the normalizer can reject them.
func Resolve(r *assetclass.Registry, f Fields) query.Input {
	class := model.AssetClass(strings.ToLower(strings.TrimSpace(string(f.AssetClass))))

	st := New()
	if class != "" {
		st = st.SelectAssetClass(class)
		st.Ticker = f.Ticker
	} else {
		st = st.SelectTicker(r, strings.TrimSpace(f.Ticker))
	}
	if f.ConditionType != "" {
		st = st.SetConditionType(f.ConditionType)
	}

	in := st.Input()
	in.Ticker = f.Ticker
	in.Threshold = f.Threshold
	if class != "" {
		in.AssetClass = class
	}
	if f.ConditionType != "" {
		in.ConditionType = f.ConditionType
	}
	if f.Direction != "" {
		in.Direction = f.Direction
	}
	if f.MatchType != "" {
		in.MatchType = f.MatchType
	}
	if len(f.Horizons) > 0 {
		in.Horizons = f.Horizons
	}
	return in
}
