package core

import "testing"

func TestAggregatorDerivedTotals(t *testing.T) {
	agg := NewAggregator(DefaultRegistry())

	agg.SetIncome(5000)
	agg.SetCategoryAmount("housing", 2000)
	agg.SetCategoryAmount("food", 1000)

	snap := agg.Snapshot()
	if snap.TotalExpenses != 3000 {
		t.Errorf("TotalExpenses = %d, want 3000", snap.TotalExpenses)
	}
	if snap.Remaining != 2000 {
		t.Errorf("Remaining = %d, want 2000", snap.Remaining)
	}
	if snap.Amounts["utilities"] != 0 {
		t.Errorf("untouched category should be 0, got %d", snap.Amounts["utilities"])
	}
}

func TestAggregatorOverwriteNotAccumulate(t *testing.T) {
	agg := NewAggregator(DefaultRegistry())
	agg.SetIncome(1000)

	agg.SetCategoryAmount("food", 300)
	agg.SetCategoryAmount("food", 300)
	agg.SetCategoryAmount("food", 450)

	snap := agg.Snapshot()
	if snap.TotalExpenses != 450 {
		t.Errorf("TotalExpenses = %d, want 450 (overwrite, not accumulation)", snap.TotalExpenses)
	}
	if snap.Remaining != 550 {
		t.Errorf("Remaining = %d, want 550", snap.Remaining)
	}
}

func TestAggregatorNegativeRemaining(t *testing.T) {
	agg := NewAggregator(DefaultRegistry())
	agg.SetIncome(1000)
	agg.SetCategoryAmount("debt", 1500)

	snap := agg.Snapshot()
	if snap.Remaining != -500 {
		t.Errorf("Remaining = %d, want -500 (overspend is a valid state)", snap.Remaining)
	}
}

func TestAggregatorUnknownCategoryIgnored(t *testing.T) {
	agg := NewAggregator(DefaultRegistry())
	agg.SetIncome(1000)
	agg.SetCategoryAmount("yacht", 900)

	snap := agg.Snapshot()
	if snap.TotalExpenses != 0 {
		t.Errorf("unknown id must be a no-op, got total %d", snap.TotalExpenses)
	}
	if _, ok := snap.Amounts["yacht"]; ok {
		t.Error("unknown id must not enter the amounts map")
	}
}

func TestAggregatorCoercesNegative(t *testing.T) {
	agg := NewAggregator(DefaultRegistry())
	agg.SetIncome(-100)
	agg.SetCategoryAmount("food", -50)

	snap := agg.Snapshot()
	if snap.Income != 0 || snap.Amounts["food"] != 0 {
		t.Errorf("negative values must coerce to 0, got income=%d food=%d", snap.Income, snap.Amounts["food"])
	}
}

func TestSnapshotEqual(t *testing.T) {
	agg := NewAggregator(DefaultRegistry())
	agg.SetIncome(1000)
	agg.SetCategoryAmount("food", 200)

	a := agg.Snapshot()
	b := agg.Snapshot()
	if !a.Equal(b) {
		t.Error("identical snapshots must compare equal")
	}

	agg.SetCategoryAmount("food", 201)
	c := agg.Snapshot()
	if a.Equal(c) {
		t.Error("snapshots with different amounts must not compare equal")
	}

	agg.SetCategoryAmount("food", 200)
	agg.SetIncome(1001)
	d := agg.Snapshot()
	if a.Equal(d) {
		t.Error("snapshots with different income must not compare equal")
	}
}

func TestAggregatorRestore(t *testing.T) {
	reg := DefaultRegistry()
	agg := NewAggregator(reg)
	agg.SetIncome(1000)
	agg.SetCategoryAmount("food", 200)
	agg.SetCategoryAmount("housing", 300)

	remote := Snapshot{
		Income:  4000,
		Amounts: map[string]int64{"food": 50, "yacht": 999},
	}
	agg.Restore(remote)

	snap := agg.Snapshot()
	if snap.Income != 4000 {
		t.Errorf("Income = %d, want 4000", snap.Income)
	}
	if snap.Amounts["food"] != 50 {
		t.Errorf("food = %d, want 50", snap.Amounts["food"])
	}
	if snap.Amounts["housing"] != 0 {
		t.Errorf("missing catalog keys must reset to 0, housing = %d", snap.Amounts["housing"])
	}
	if _, ok := snap.Amounts["yacht"]; ok {
		t.Error("keys outside the catalog must be dropped")
	}
}

func TestNewRegistryValidation(t *testing.T) {
	cases := []struct {
		name string
		cats []Category
	}{
		{"empty catalog", nil},
		{"empty id", []Category{{ID: "", Kind: Need, Color: "#111111"}}},
		{"duplicate id", []Category{
			{ID: "a", Kind: Need, Color: "#111111"},
			{ID: "a", Kind: Need, Color: "#222222"},
		}},
		{"invalid kind", []Category{{ID: "a", Kind: "luxury", Color: "#111111"}}},
		{"empty color", []Category{{ID: "a", Kind: Need, Color: ""}}},
		{"adjacent colors", []Category{
			{ID: "a", Kind: Need, Color: "#111111"},
			{ID: "b", Kind: Want, Color: "#111111"},
		}},
	}
	for _, tc := range cases {
		if _, err := NewRegistry(tc.cats); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestDefaultRegistryOrder(t *testing.T) {
	reg := DefaultRegistry()
	want := []string{"housing", "utilities", "food", "debt", "transportation", "savings", "online"}
	got := reg.IDs()
	if len(got) != len(want) {
		t.Fatalf("registry has %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if c, ok := reg.Lookup("online"); !ok || c.Kind != Want {
		t.Errorf("online should exist with kind want, got %+v ok=%v", c, ok)
	}
}
