package amqp

import (
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/remote"
)

func TestBudgetSavedMessageRoundTrip(t *testing.T) {
	reg := core.DefaultRegistry()
	agg := core.NewAggregator(reg)
	agg.SetIncome(5000)
	agg.SetCategoryAmount("housing", 2000)
	agg.SetCategoryAmount("food", 1000)

	msg := NewBudgetSavedMessage(agg.Snapshot())
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := BudgetSavedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	snap := decoded.Snapshot(reg)
	if snap.Income != 5000 || snap.TotalExpenses != 3000 || snap.Remaining != 2000 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestBudgetSavedMessageDropsDerivedTotals(t *testing.T) {
	agg := core.NewAggregator(core.DefaultRegistry())
	agg.SetIncome(100)

	msg := NewBudgetSavedMessage(agg.Snapshot())
	if _, ok := msg.Budget["totalExpenses"]; ok {
		t.Error("wire map carries totalExpenses")
	}
	if msg.Budget[remote.IncomeKey] != 100 {
		t.Errorf("income = %d, want 100", msg.Budget[remote.IncomeKey])
	}
}

func TestBudgetSavedMessageFromJSONInvalid(t *testing.T) {
	if _, err := BudgetSavedMessageFromJSON([]byte("non json")); err == nil {
		t.Error("expected error for invalid body")
	}
}
