// Package query turns query-form input into the canonical request sent
// to the analytics service.
package query

import (
	"math"
	"strconv"
	"strings"

	"histpattern/internal/assetclass"
	"histpattern/pkg/model"
)

// Input is the raw query-form state. Threshold is the text the user typed
// and is always a non-negative magnitude; Direction decides its sign.
type Input struct {
	AssetClass    model.AssetClass
	Ticker        string
	ConditionType model.ConditionType
	Direction     model.Direction
	MatchType     model.MatchType
	Threshold     string
	Horizons      []model.Horizon
}

// rule is one row of the operator/sign matrix
type rule struct {
	op     model.Operator
	negate bool
}

// levelRules apply to above/below; match type is ignored
var levelRules = map[model.Direction]rule{
	model.Above: {op: model.OpGTE},
	model.Below: {op: model.OpLTE},
}

// changeRules apply to increase/decrease. "decreased by at least 5%" must
// reach the service as change <= -5, so decrease mirrors the operator and
// negates the threshold. eq keeps its operator in both directions.
var changeRules = map[model.Direction]map[model.MatchType]rule{
	model.Increase: {
		model.MatchGT:  {op: model.OpGT},
		model.MatchGTE: {op: model.OpGTE},
		model.MatchEQ:  {op: model.OpEQ},
	},
	model.Decrease: {
		model.MatchGT:  {op: model.OpLT, negate: true},
		model.MatchGTE: {op: model.OpLTE, negate: true},
		model.MatchEQ:  {op: model.OpEQ, negate: true},
	},
}

// Normalize builds the canonical QueryRequest. It has no side effects and
// returns a *ValidationError for anything that must not be submitted.
func Normalize(in Input) (model.QueryRequest, error) {
	var req model.QueryRequest

	ticker := strings.ToUpper(strings.TrimSpace(in.Ticker))
	if ticker == "" {
		return req, invalid("ticker", in.Ticker, "is required")
	}

	magnitude, err := parseMagnitude(in.Threshold)
	if err != nil {
		return req, err
	}

	class := in.AssetClass
	if class == "" {
		class = model.AssetStocks
	}
	if !assetclass.IsValid(class) {
		return req, invalid("asset_class", in.AssetClass, "unknown asset class")
	}

	switch in.ConditionType {
	case model.PercentageChange, model.AbsoluteThreshold:
	default:
		return req, invalid("condition_type", in.ConditionType, "must be one of: percentage_change, absolute_threshold")
	}

	if !assetclass.DirectionAllowed(class, in.ConditionType, in.Direction) {
		return req, invalid("direction", in.Direction, "must be one of %v for %s with %s",
			assetclass.AllowedDirections(class, in.ConditionType), class, in.ConditionType)
	}

	r, ct, err := resolve(in.Direction, in.MatchType)
	if err != nil {
		return req, err
	}

	horizons, err := canonicalHorizons(in.Horizons)
	if err != nil {
		return req, err
	}

	threshold := magnitude
	if r.negate && magnitude != 0 {
		threshold = -magnitude
	}

	req = model.QueryRequest{
		Ticker:        ticker,
		ConditionType: ct,
		Threshold:     threshold,
		Operator:      r.op,
		TimeHorizons:  horizons,
	}

	if err := checkStruct(req); err != nil {
		return model.QueryRequest{}, err
	}
	return req, nil
}

// resolve looks up the operator rule and the condition type it implies
func resolve(d model.Direction, m model.MatchType) (rule, model.ConditionType, error) {
	if r, ok := levelRules[d]; ok {
		return r, model.AbsoluteThreshold, nil
	}

	byMatch, ok := changeRules[d]
	if !ok {
		return rule{}, "", invalid("direction", d, "unknown direction")
	}
	if m == "" {
		return rule{}, "", invalid("match_type", m, "is required for %s", d)
	}
	r, ok := byMatch[m]
	if !ok {
		return rule{}, "", invalid("match_type", m, "must be one of: gte, eq, gt")
	}
	return r, model.PercentageChange, nil
}

func parseMagnitude(raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, invalid("threshold", raw, "is required")
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, invalid("threshold", raw, "must be a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid("threshold", raw, "must be finite")
	}
	if v < 0 {
		return 0, invalid("threshold", raw, "must be a non-negative magnitude; use direction for the sign")
	}
	return v, nil
}

// canonicalHorizons dedupes and orders horizons; empty means all of them
func canonicalHorizons(in []model.Horizon) ([]model.Horizon, error) {
	if len(in) == 0 {
		return append([]model.Horizon(nil), model.Horizons...), nil
	}

	want := make(map[model.Horizon]bool, len(in))
	for _, h := range in {
		h = model.Horizon(strings.ToLower(strings.TrimSpace(string(h))))
		if !IsHorizon(h) {
			return nil, invalid("time_horizons", h, "must be one of: 1d, 1w, 1m, 1y")
		}
		want[h] = true
	}

	out := make([]model.Horizon, 0, len(want))
	for _, h := range model.Horizons {
		if want[h] {
			out = append(out, h)
		}
	}
	return out, nil
}

// IsHorizon reports whether h is one of the canonical horizons
func IsHorizon(h model.Horizon) bool {
	for _, c := range model.Horizons {
		if c == h {
			return true
		}
	}
	return false
}

// ParseHorizons splits a comma-separated horizon list such as "1d,1w"
func ParseHorizons(s string) []model.Horizon {
	var out []model.Horizon
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, model.Horizon(part))
		}
	}
	return out
}
