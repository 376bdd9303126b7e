package query

import (
	"math"
	"reflect"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"histpattern/pkg/model"
)

// For any magnitude and any change-direction/match combination the output
// operator and threshold sign follow the matrix exactly.
func TestPropertyChangeMatrix(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	wantOp := map[model.Direction]map[model.MatchType]model.Operator{
		model.Increase: {model.MatchGT: model.OpGT, model.MatchGTE: model.OpGTE, model.MatchEQ: model.OpEQ},
		model.Decrease: {model.MatchGT: model.OpLT, model.MatchGTE: model.OpLTE, model.MatchEQ: model.OpEQ},
	}

	properties.Property("operator and sign follow direction and match type", prop.ForAll(
		func(dir model.Direction, match model.MatchType, magnitude float64) bool {
			req, err := Normalize(Input{
				Ticker:        "nvda",
				ConditionType: model.PercentageChange,
				Direction:     dir,
				MatchType:     match,
				Threshold:     strconv.FormatFloat(magnitude, 'f', -1, 64),
			})
			if err != nil {
				t.Logf("Unexpected error for %s/%s/%v: %v", dir, match, magnitude, err)
				return false
			}
			if req.Operator != wantOp[dir][match] {
				return false
			}
			if math.Abs(req.Threshold) != magnitude {
				return false
			}
			if dir == model.Decrease && magnitude > 0 {
				return req.Threshold < 0
			}
			return req.Threshold >= 0
		},
		gen.OneConstOf(model.Increase, model.Decrease),
		gen.OneConstOf(model.MatchGT, model.MatchGTE, model.MatchEQ),
		gen.Float64Range(0, 1000),
	))

	properties.Property("level directions never change the sign", prop.ForAll(
		func(dir model.Direction, magnitude float64) bool {
			req, err := Normalize(Input{
				AssetClass:    model.AssetIndicators,
				Ticker:        "vix",
				ConditionType: model.AbsoluteThreshold,
				Direction:     dir,
				Threshold:     strconv.FormatFloat(magnitude, 'f', -1, 64),
			})
			if err != nil {
				return false
			}
			if dir == model.Above && req.Operator != model.OpGTE {
				return false
			}
			if dir == model.Below && req.Operator != model.OpLTE {
				return false
			}
			return req.Threshold == magnitude && req.ConditionType == model.AbsoluteThreshold
		},
		gen.OneConstOf(model.Above, model.Below),
		gen.Float64Range(0, 200),
	))

	properties.TestingRun(t)
}

// Normalize is referentially transparent: equal input, equal output.
func TestPropertyNormalizeIsPure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("repeated calls agree", prop.ForAll(
		func(ticker string, dir model.Direction, match model.MatchType, threshold string) bool {
			ct := model.PercentageChange
			if dir == model.Above || dir == model.Below {
				ct = model.AbsoluteThreshold
			}
			in := Input{
				Ticker:        ticker,
				ConditionType: ct,
				Direction:     dir,
				MatchType:     match,
				Threshold:     threshold,
				Horizons:      []model.Horizon{model.Horizon1Y, model.Horizon1D},
			}

			first, err1 := Normalize(in)
			second, err2 := Normalize(in)
			if (err1 == nil) != (err2 == nil) {
				return false
			}
			if err1 != nil {
				return err1.Error() == err2.Error()
			}
			return reflect.DeepEqual(first, second)
		},
		gen.AlphaString(),
		gen.OneConstOf(model.Increase, model.Decrease, model.Above, model.Below),
		gen.OneConstOf(model.MatchGT, model.MatchGTE, model.MatchEQ),
		gen.OneConstOf("0", "2.5", "30", "-1", "abc", ""),
	))

	properties.TestingRun(t)
}
