// Package pricing computes subscription totals from a plan, the module
// catalog and the customer's module selections. It is a pure calculation
// layer: no storage, no transport.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrQuantityOutOfRange = errors.New("quantity_out_of_range")

// PriceTier maps a billable-quantity band to a unit price. Bands are
// inclusive on both ends and must not overlap.
type PriceTier struct {
	InitialQuantity int
	FinalQuantity   int
	UnitPrice       float64
}

// Module is a catalog entry as the calculator sees it.
type Module struct {
	ID              int64
	Description     string
	Price           float64
	FreeQuantity    int
	QuantityAllowed bool
	Tiers           []PriceTier
}

type Plan struct {
	Price float64
}

// Selection is one chosen module with its requested quantity. A zero
// Quantity defaults to one unit unless Cleared marks an explicit zero.
type Selection struct {
	ModuleID int64
	Quantity int
	Cleared  bool
}

// Line is the computed price for one selected module. Err carries the
// per-line validation failure so one bad module never poisons the others.
type Line struct {
	ModuleID         int64
	BillableQuantity int
	UnitPrice        float64
	LineTotal        float64
	Err              error
}

type Result struct {
	Lines             []Line
	SubscriptionTotal float64
	// Valid is false when any line carries a validation error; the total is
	// still computed over the remaining lines but must not be submitted.
	Valid bool
}

// Compute derives per-module prices and the subscription total.
// Selections referencing unknown modules are skipped.
func Compute(plan Plan, catalog []Module, selections []Selection) Result {
	byID := make(map[int64]Module, len(catalog))
	for _, m := range catalog {
		byID[m.ID] = m
	}

	result := Result{Valid: true}
	total := decimal.NewFromFloat(plan.Price)

	for _, sel := range selections {
		module, ok := byID[sel.ModuleID]
		if !ok {
			continue
		}

		line := computeLine(module, requestedQuantity(sel))
		if line.Err != nil {
			result.Valid = false
		} else {
			total = total.Add(decimal.NewFromFloat(line.LineTotal))
		}
		result.Lines = append(result.Lines, line)
	}

	// One-decimal rounding kept for compatibility with the persisted
	// subscription values written by the existing backend.
	result.SubscriptionTotal = total.Round(1).InexactFloat64()
	return result
}

func computeLine(module Module, quantity int) Line {
	line := Line{ModuleID: module.ID}

	billable := quantity - module.FreeQuantity
	if billable < 0 {
		billable = 0
	}
	line.BillableQuantity = billable

	if billable == 0 {
		return line
	}

	if len(module.Tiers) > 0 {
		tier, ok := matchTier(module.Tiers, billable)
		if !ok {
			line.Err = ErrQuantityOutOfRange
			return line
		}
		line.UnitPrice = tier.UnitPrice
	} else {
		line.UnitPrice = module.Price
	}

	line.LineTotal = decimal.NewFromFloat(line.UnitPrice).
		Mul(decimal.NewFromInt(int64(billable))).
		InexactFloat64()
	return line
}

func matchTier(tiers []PriceTier, billable int) (PriceTier, bool) {
	for _, tier := range tiers {
		if billable >= tier.InitialQuantity && billable <= tier.FinalQuantity {
			return tier, true
		}
	}
	return PriceTier{}, false
}

func requestedQuantity(sel Selection) int {
	if sel.Quantity > 0 {
		return sel.Quantity
	}
	if sel.Cleared {
		return 0
	}
	return 1
}

// MatchesPersistedTotal reports whether a freshly computed total equals a
// previously stored subscription value, so callers can suppress no-op
// submissions.
func (r Result) MatchesPersistedTotal(persisted float64) bool {
	return r.Valid && decimal.NewFromFloat(r.SubscriptionTotal).
		Equal(decimal.NewFromFloat(persisted).Round(1))
}
