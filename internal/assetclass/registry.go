// Package assetclass maps tickers to asset classes and to the condition
// semantics each class allows in the query form.
package assetclass

import (
	"fmt"
	"sort"
	"strings"

	"histpattern/pkg/model"
)

// Registry is an immutable symbol → asset class catalog
type Registry struct {
	members map[model.AssetClass][]string
	index   map[string]model.AssetClass
}

var defaultRegistry = mustNew(DefaultCatalog())

// Default returns the registry built from the built-in catalog
func Default() *Registry {
	return defaultRegistry
}

// New builds a registry. Symbol sets must be pairwise disjoint.
func New(sets map[model.AssetClass][]string) (*Registry, error) {
	r := &Registry{
		members: make(map[model.AssetClass][]string, len(sets)),
		index:   make(map[string]model.AssetClass),
	}

	for _, class := range model.AssetClasses {
		for _, raw := range sets[class] {
			sym := normalize(raw)
			if sym == "" {
				continue
			}
			if prev, ok := r.index[sym]; ok {
				if prev == class {
					continue
				}
				return nil, fmt.Errorf("symbol %s listed in both %s and %s", sym, prev, class)
			}
			r.index[sym] = class
			r.members[class] = append(r.members[class], sym)
		}
		sort.Strings(r.members[class])
	}

	for class := range sets {
		if !IsValid(class) {
			return nil, fmt.Errorf("unknown asset class: %s", class)
		}
	}

	return r, nil
}

// FromTickerList builds a registry from the /api/tickers response
func FromTickerList(list model.TickerListResponse) (*Registry, error) {
	return New(CatalogFromTickerList(list))
}

func mustNew(sets map[model.AssetClass][]string) *Registry {
	r, err := New(sets)
	if err != nil {
		panic(err)
	}
	return r
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// IsValid reports whether class is one of the known asset classes
func IsValid(class model.AssetClass) bool {
	for _, c := range model.AssetClasses {
		if c == class {
			return true
		}
	}
	return false
}

// Classify returns the asset class of symbol, falling back to stocks
func (r *Registry) Classify(symbol string) model.AssetClass {
	if class, ok := r.index[normalize(symbol)]; ok {
		return class
	}
	return model.AssetStocks
}

// MembersOf returns a sorted copy of the symbols in class
func (r *Registry) MembersOf(class model.AssetClass) []string {
	return append([]string(nil), r.members[class]...)
}

// Contains reports whether symbol is explicitly listed in any class
func (r *Registry) Contains(symbol string) bool {
	_, ok := r.index[normalize(symbol)]
	return ok
}

// allowedConditions is keyed by asset class; indicators are only
// meaningful as absolute levels
var allowedConditions = map[model.AssetClass][]model.ConditionType{
	model.AssetStocks:      {model.PercentageChange, model.AbsoluteThreshold},
	model.AssetIndicators:  {model.AbsoluteThreshold},
	model.AssetCommodities: {model.PercentageChange, model.AbsoluteThreshold},
	model.AssetSectors:     {model.PercentageChange, model.AbsoluteThreshold},
}

// AllowedConditionTypes returns the condition types offered for class
func AllowedConditionTypes(class model.AssetClass) []model.ConditionType {
	allowed, ok := allowedConditions[class]
	if !ok {
		allowed = allowedConditions[model.AssetStocks]
	}
	return append([]model.ConditionType(nil), allowed...)
}

// DefaultConditionType is the condition type preselected for class
func DefaultConditionType(class model.AssetClass) model.ConditionType {
	return AllowedConditionTypes(class)[0]
}

// ConditionAllowed reports whether ct may be used with class
func ConditionAllowed(class model.AssetClass, ct model.ConditionType) bool {
	for _, c := range AllowedConditionTypes(class) {
		if c == ct {
			return true
		}
	}
	return false
}

// AllowedDirections returns the direction domain for (class, ct). The
// level pair and the change pair are never valid together.
func AllowedDirections(class model.AssetClass, ct model.ConditionType) []model.Direction {
	if class == model.AssetIndicators || ct == model.AbsoluteThreshold {
		return []model.Direction{model.Above, model.Below}
	}
	return []model.Direction{model.Increase, model.Decrease}
}

// DirectionAllowed reports whether d is in the domain for (class, ct)
func DirectionAllowed(class model.AssetClass, ct model.ConditionType, d model.Direction) bool {
	for _, allowed := range AllowedDirections(class, ct) {
		if allowed == d {
			return true
		}
	}
	return false
}
