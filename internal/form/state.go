// Package form holds the query-form UI state and the transitions applied
// when the user picks an asset class, ticker or condition type. It never
// computes operators or signs; that is query.Normalize's job.
package form

import (
	"histpattern/internal/assetclass"
	"histpattern/internal/query"
	"histpattern/pkg/model"
)

// Transition is the rule applied when an asset class becomes active.
// Nil fields leave the current value alone.
type Transition struct {
	ForceCondition *model.ConditionType
	ForceDirection *model.Direction
}

func conditionPtr(ct model.ConditionType) *model.ConditionType { return &ct }
func directionPtr(d model.Direction) *model.Direction           { return &d }

// transitions is keyed by asset class
var transitions = map[model.AssetClass]Transition{
	model.AssetStocks:      {},
	model.AssetCommodities: {},
	model.AssetSectors:     {},
	model.AssetIndicators: {
		ForceCondition: conditionPtr(model.AbsoluteThreshold),
		ForceDirection: directionPtr(model.Above),
	},
}

// TransitionFor returns the selection rule for class
func TransitionFor(class model.AssetClass) Transition {
	return transitions[class]
}

// State is the editable query form
type State struct {
	AssetClass    model.AssetClass
	Ticker        string
	ConditionType model.ConditionType
	Direction     model.Direction
	MatchType     model.MatchType
	Threshold     string
	Horizons      []model.Horizon
}

// New returns the initial form: stocks, percentage change, increase, >=
func New() State {
	return State{
		AssetClass:    model.AssetStocks,
		ConditionType: model.PercentageChange,
		Direction:     model.Increase,
		MatchType:     model.MatchGTE,
		Horizons:      append([]model.Horizon(nil), model.Horizons...),
	}
}

// SelectAssetClass applies the class's transition rule and returns the new state
func (s State) SelectAssetClass(class model.AssetClass) State {
	if !assetclass.IsValid(class) {
		return s
	}
	s.AssetClass = class

	rule := TransitionFor(class)
	if rule.ForceCondition != nil {
		s.ConditionType = *rule.ForceCondition
	} else if !assetclass.ConditionAllowed(class, s.ConditionType) {
		s.ConditionType = assetclass.DefaultConditionType(class)
	}

	if rule.ForceDirection != nil {
		s.Direction = *rule.ForceDirection
	}
	return s.reconcileDirection()
}

// SelectTicker sets the ticker and switches to the class it belongs to
func (s State) SelectTicker(r *assetclass.Registry, ticker string) State {
	s.Ticker = ticker
	return s.SelectAssetClass(r.Classify(ticker))
}

// SetConditionType changes the condition type if the active class allows it
func (s State) SetConditionType(ct model.ConditionType) State {
	if !assetclass.ConditionAllowed(s.AssetClass, ct) {
		return s
	}
	s.ConditionType = ct
	return s.reconcileDirection()
}

// SetDirection changes the direction if it is in the current domain
func (s State) SetDirection(d model.Direction) State {
	if assetclass.DirectionAllowed(s.AssetClass, s.ConditionType, d) {
		s.Direction = d
	}
	return s
}

// reconcileDirection resets a direction that left the allowed domain
func (s State) reconcileDirection() State {
	if !assetclass.DirectionAllowed(s.AssetClass, s.ConditionType, s.Direction) {
		s.Direction = assetclass.AllowedDirections(s.AssetClass, s.ConditionType)[0]
	}
	return s
}

// ShowsMatchType reports whether the match-type control is relevant
func (s State) ShowsMatchType() bool {
	return s.Direction == model.Increase || s.Direction == model.Decrease
}

// Input converts the form into normalizer input
func (s State) Input() query.Input {
	return query.Input{
		AssetClass:    s.AssetClass,
		Ticker:        s.Ticker,
		ConditionType: s.ConditionType,
		Direction:     s.Direction,
		MatchType:     s.MatchType,
		Threshold:     s.Threshold,
		Horizons:      append([]model.Horizon(nil), s.Horizons...),
	}
}
