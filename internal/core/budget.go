package core

// Snapshot is the aggregate budget at a point in time. TotalExpenses and
// Remaining are derived from Income and Amounts on every read and are never
// independently settable. Remaining may be negative: overspend is a valid,
// displayed state, not an error.
type Snapshot struct {
	Income        int64
	Amounts       map[string]int64
	TotalExpenses int64
	Remaining     int64
}

// Equal reports structural equality of the stored fields. Derived fields are
// a function of the stored ones, so they never need comparing.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Income != o.Income || len(s.Amounts) != len(o.Amounts) {
		return false
	}
	for id, v := range s.Amounts {
		ov, ok := o.Amounts[id]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Aggregator holds the current income and per-category amounts for one
// session and derives totals from them. It only ever sees already-normalized
// non-negative integers; raw text parsing happens at the input boundary
// (ParseAmount). Aggregator is not safe for concurrent use; the session layer
// serializes access.
type Aggregator struct {
	registry *Registry
	income   int64
	amounts  map[string]int64
}

// NewAggregator starts a session with income 0 and every catalog category
// at 0. An amount of 0 is a real value, not "unset".
func NewAggregator(reg *Registry) *Aggregator {
	amounts := make(map[string]int64, reg.Len())
	for _, id := range reg.IDs() {
		amounts[id] = 0
	}
	return &Aggregator{registry: reg, amounts: amounts}
}

// Registry returns the catalog this aggregator iterates.
func (a *Aggregator) Registry() *Registry {
	return a.registry
}

// SetIncome overwrites the monthly income. Negative values are coerced to 0.
func (a *Aggregator) SetIncome(v int64) {
	if v < 0 {
		v = 0
	}
	a.income = v
}

// SetCategoryAmount overwrites one category's amount. Writing an unknown id
// is a no-op so the catalog stays closed; negative values are coerced to 0.
// Overwrites are idempotent: the same value twice yields the same snapshot.
func (a *Aggregator) SetCategoryAmount(id string, v int64) {
	if !a.registry.Contains(id) {
		return
	}
	if v < 0 {
		v = 0
	}
	a.amounts[id] = v
}

// Restore overwrites income and all amounts from a snapshot, used by pull
// reconciliation. Keys outside the catalog are dropped; missing catalog keys
// reset to 0.
func (a *Aggregator) Restore(s Snapshot) {
	a.SetIncome(s.Income)
	for _, id := range a.registry.IDs() {
		a.SetCategoryAmount(id, s.Amounts[id])
	}
}

// Snapshot returns a read-only view with TotalExpenses and Remaining
// recomputed from the stored fields. The amounts map is a copy.
func (a *Aggregator) Snapshot() Snapshot {
	amounts := make(map[string]int64, len(a.amounts))
	var total int64
	for _, id := range a.registry.IDs() {
		v := a.amounts[id]
		amounts[id] = v
		total += v
	}
	return Snapshot{
		Income:        a.income,
		Amounts:       amounts,
		TotalExpenses: total,
		Remaining:     a.income - total,
	}
}
