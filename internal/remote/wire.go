package remote

import "bilancio/internal/core"

// IncomeKey is the one wire key that is not a category id.
const IncomeKey = "income"

// Encode flattens a snapshot into its wire form: one object with income plus
// one key per category id, all integers. Derived fields are never sent.
func Encode(s core.Snapshot) map[string]int64 {
	wire := make(map[string]int64, len(s.Amounts)+1)
	wire[IncomeKey] = s.Income
	for id, v := range s.Amounts {
		wire[id] = v
	}
	return wire
}

// Decode rebuilds a snapshot from the wire form against a registry. Keys
// outside the catalog are dropped, missing catalog keys read as 0 and
// negative values are coerced, so a decoded snapshot always satisfies the
// aggregator's invariants.
func Decode(reg *core.Registry, wire map[string]int64) core.Snapshot {
	agg := core.NewAggregator(reg)
	agg.SetIncome(wire[IncomeKey])
	for _, id := range reg.IDs() {
		agg.SetCategoryAmount(id, wire[id])
	}
	return agg.Snapshot()
}
