package donut

import (
	"math"
	"testing"

	"bilancio/internal/core"
)

const tolerance = 1e-9

func snapshotFor(t *testing.T, income int64, amounts map[string]int64) (*core.Registry, core.Snapshot) {
	t.Helper()
	reg := core.DefaultRegistry()
	agg := core.NewAggregator(reg)
	agg.SetIncome(income)
	for id, v := range amounts {
		agg.SetCategoryAmount(id, v)
	}
	return reg, agg.Snapshot()
}

func TestLayoutZeroIncome(t *testing.T) {
	reg, snap := snapshotFor(t, 0, map[string]int64{"food": 500})
	if segs := Layout(reg, snap); segs != nil {
		t.Fatalf("expected no segments for zero income, got %d", len(segs))
	}
}

func TestLayoutReferenceScenario(t *testing.T) {
	// income=5000, housing=2000, food=1000, rest 0.
	reg, snap := snapshotFor(t, 5000, map[string]int64{"housing": 2000, "food": 1000})
	segs := Layout(reg, snap)

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments (housing, food, remaining), got %d", len(segs))
	}

	housing := segs[0]
	if housing.CategoryID != "housing" || housing.Span != 40 || housing.Offset != 100 {
		t.Errorf("housing = %+v, want span=40 offset=100", housing)
	}
	food := segs[1]
	if food.CategoryID != "food" || food.Span != 20 || food.Offset != 60 {
		t.Errorf("food = %+v, want span=20 offset=60", food)
	}
	remaining := segs[2]
	if remaining.CategoryID != RemainingID || remaining.Span != 40 || remaining.Offset != 40 {
		t.Errorf("remaining = %+v, want span=40 offset=40, drawn last", remaining)
	}
}

func TestLayoutOvershoot(t *testing.T) {
	// income=1000, single category 1500: span 150, no remaining segment.
	reg, snap := snapshotFor(t, 1000, map[string]int64{"debt": 1500})
	segs := Layout(reg, snap)

	if len(segs) != 1 {
		t.Fatalf("expected only the overshooting category segment, got %d", len(segs))
	}
	if segs[0].CategoryID != "debt" || segs[0].Span != 150 {
		t.Errorf("debt = %+v, want uncapped span=150", segs[0])
	}
}

func TestLayoutNoRemainingWhenFullySpent(t *testing.T) {
	reg, snap := snapshotFor(t, 1000, map[string]int64{"housing": 600, "food": 400})
	segs := Layout(reg, snap)
	for _, s := range segs {
		if s.CategoryID == RemainingID {
			t.Fatal("remaining segment must not appear when expenses reach income")
		}
	}
}

func TestLayoutSpansSumTo100(t *testing.T) {
	cases := []struct {
		name    string
		income  int64
		amounts map[string]int64
	}{
		{"nothing spent", 1000, nil},
		{"partially spent", 5000, map[string]int64{"housing": 2000, "food": 1000}},
		{"exactly spent", 1000, map[string]int64{"housing": 700, "food": 300}},
		{"uneven thirds", 900, map[string]int64{"housing": 299, "food": 301, "debt": 150}},
		{"all categories", 7000, map[string]int64{
			"housing": 1000, "utilities": 1000, "food": 1000, "debt": 1000,
			"transportation": 1000, "savings": 1000, "online": 500,
		}},
	}
	for _, tc := range cases {
		reg, snap := snapshotFor(t, tc.income, tc.amounts)
		var sum float64
		for _, s := range Layout(reg, snap) {
			sum += s.Span
		}
		if math.Abs(sum-100) > tolerance {
			t.Errorf("%s: spans sum to %v, want 100", tc.name, sum)
		}
	}
}

func TestLayoutStableOrder(t *testing.T) {
	// Declaration order, not sort-by-size: food (larger) stays after housing.
	reg, snap := snapshotFor(t, 5000, map[string]int64{"housing": 500, "food": 2500})
	first := Layout(reg, snap)
	second := Layout(reg, snap)

	if first[0].CategoryID != "housing" || first[1].CategoryID != "food" {
		t.Errorf("segments must follow registry order, got %s then %s",
			first[0].CategoryID, first[1].CategoryID)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("layout must be reproducible, segment %d differs", i)
		}
	}
}

func TestLayoutSkipsZeroAmounts(t *testing.T) {
	reg, snap := snapshotFor(t, 1000, map[string]int64{"savings": 100})
	segs := Layout(reg, snap)
	if len(segs) != 2 {
		t.Fatalf("expected savings + remaining, got %d segments", len(segs))
	}
	if segs[0].CategoryID != "savings" {
		t.Errorf("first segment = %s, want savings", segs[0].CategoryID)
	}
}

func TestPercentSpent(t *testing.T) {
	reg, snap := snapshotFor(t, 5000, map[string]int64{"housing": 2000, "food": 1000})
	_ = reg
	if got := PercentSpent(snap); got != 60 {
		t.Errorf("PercentSpent = %v, want 60", got)
	}
	_, empty := snapshotFor(t, 0, nil)
	if got := PercentSpent(empty); got != 0 {
		t.Errorf("PercentSpent with zero income = %v, want 0", got)
	}
}
