package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tieredModule() Module {
	return Module{
		ID:              1,
		Description:     "Fiscal",
		Price:           15.0,
		FreeQuantity:    2,
		QuantityAllowed: true,
		Tiers: []PriceTier{
			{InitialQuantity: 1, FinalQuantity: 5, UnitPrice: 10.0},
			{InitialQuantity: 6, FinalQuantity: 20, UnitPrice: 8.0},
		},
	}
}

func TestComputeTieredUnitPrice(t *testing.T) {
	catalog := []Module{tieredModule()}

	// Every billable quantity inside a band must price at that band's rate.
	for requested := 3; requested <= 7; requested++ {
		result := Compute(Plan{Price: 0}, catalog, []Selection{{ModuleID: 1, Quantity: requested}})
		assert.Len(t, result.Lines, 1)
		assert.NoError(t, result.Lines[0].Err)
		assert.Equal(t, 10.0, result.Lines[0].UnitPrice, "requested %d", requested)
	}
	for requested := 8; requested <= 22; requested++ {
		result := Compute(Plan{Price: 0}, catalog, []Selection{{ModuleID: 1, Quantity: requested}})
		assert.Equal(t, 8.0, result.Lines[0].UnitPrice, "requested %d", requested)
	}
}

func TestComputeFreeAllowanceCoversQuantity(t *testing.T) {
	catalog := []Module{tieredModule()}

	for requested := 1; requested <= 2; requested++ {
		result := Compute(Plan{Price: 100}, catalog, []Selection{{ModuleID: 1, Quantity: requested}})
		line := result.Lines[0]
		assert.Equal(t, 0, line.BillableQuantity)
		assert.Equal(t, 0.0, line.UnitPrice)
		assert.Equal(t, 0.0, line.LineTotal)
		assert.Equal(t, 100.0, result.SubscriptionTotal)
	}
}

func TestComputeSubscriptionTotalScenario(t *testing.T) {
	// Plan 100.00, freeQuantity=2, tiers [1-5]@10.0 and [6-20]@8.0,
	// requested 7 -> billable 5 -> first band -> 50.0 line total.
	result := Compute(Plan{Price: 100.0}, []Module{tieredModule()}, []Selection{{ModuleID: 1, Quantity: 7}})

	assert.True(t, result.Valid)
	line := result.Lines[0]
	assert.Equal(t, 5, line.BillableQuantity)
	assert.Equal(t, 10.0, line.UnitPrice)
	assert.Equal(t, 50.0, line.LineTotal)
	assert.Equal(t, 150.0, result.SubscriptionTotal)
}

func TestComputeOutOfRangeQuantity(t *testing.T) {
	// requested 25 -> billable 23, past the last band: the line errors but
	// the total over the remaining selections stays usable.
	flat := Module{ID: 2, Description: "Delivery", Price: 5.0}
	result := Compute(Plan{Price: 100.0}, []Module{tieredModule(), flat}, []Selection{
		{ModuleID: 1, Quantity: 25},
		{ModuleID: 2, Quantity: 3},
	})

	assert.False(t, result.Valid)
	assert.Len(t, result.Lines, 2)
	assert.True(t, errors.Is(result.Lines[0].Err, ErrQuantityOutOfRange))
	assert.Equal(t, 0.0, result.Lines[0].LineTotal)
	assert.NoError(t, result.Lines[1].Err)
	assert.Equal(t, 115.0, result.SubscriptionTotal)
}

func TestComputeFlatRateWithoutTiers(t *testing.T) {
	flat := Module{ID: 2, Description: "Delivery", Price: 7.5, FreeQuantity: 1}
	result := Compute(Plan{Price: 0}, []Module{flat}, []Selection{{ModuleID: 2, Quantity: 4}})

	line := result.Lines[0]
	assert.Equal(t, 3, line.BillableQuantity)
	assert.Equal(t, 7.5, line.UnitPrice)
	assert.Equal(t, 22.5, line.LineTotal)
}

func TestComputeUnknownModuleSkipped(t *testing.T) {
	result := Compute(Plan{Price: 50.0}, []Module{tieredModule()}, []Selection{{ModuleID: 99, Quantity: 3}})
	assert.Empty(t, result.Lines)
	assert.True(t, result.Valid)
	assert.Equal(t, 50.0, result.SubscriptionTotal)
}

func TestComputeDefaultQuantity(t *testing.T) {
	flat := Module{ID: 2, Description: "Delivery", Price: 7.5}

	// Absent quantity counts as one unit.
	result := Compute(Plan{Price: 0}, []Module{flat}, []Selection{{ModuleID: 2}})
	assert.Equal(t, 7.5, result.SubscriptionTotal)

	// An explicit clear means zero units.
	result = Compute(Plan{Price: 0}, []Module{flat}, []Selection{{ModuleID: 2, Cleared: true}})
	assert.Equal(t, 0.0, result.SubscriptionTotal)
}

func TestComputeIsPure(t *testing.T) {
	catalog := []Module{tieredModule()}
	selections := []Selection{{ModuleID: 1, Quantity: 7}}

	first := Compute(Plan{Price: 100.0}, catalog, selections)
	second := Compute(Plan{Price: 100.0}, catalog, selections)
	assert.Equal(t, first, second)
}

func TestComputeRoundsToOneDecimal(t *testing.T) {
	flat := Module{ID: 3, Description: "SMS", Price: 0.33}
	result := Compute(Plan{Price: 0}, []Module{flat}, []Selection{{ModuleID: 3, Quantity: 7}})

	// 0.33 * 7 = 2.31 -> rounded to 2.3.
	assert.Equal(t, 2.3, result.SubscriptionTotal)
}

func TestMatchesPersistedTotal(t *testing.T) {
	result := Compute(Plan{Price: 100.0}, []Module{tieredModule()}, []Selection{{ModuleID: 1, Quantity: 7}})

	assert.True(t, result.MatchesPersistedTotal(150.0))
	assert.False(t, result.MatchesPersistedTotal(150.2))

	// An invalid result never matches: it must not gate a submission.
	invalid := Compute(Plan{Price: 100.0}, []Module{tieredModule()}, []Selection{{ModuleID: 1, Quantity: 25}})
	assert.False(t, invalid.MatchesPersistedTotal(invalid.SubscriptionTotal))
}
