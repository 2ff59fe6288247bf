package http

import (
	"strconv"

	"bilancio/internal/core"
	"bilancio/internal/donut"
)

// CategoryView is one editable row in the budget form.
type CategoryView struct {
	ID      string
	Name    string
	Tooltip string
	Color   string
	Want    bool
	Amount  int64
	Label   string
}

// SegmentView is one donut arc, precomputed for the SVG template. DashArray
// and DashOffset are percentages of the circle's circumference.
type SegmentView struct {
	CategoryID string
	Color      string
	DashArray  string
	DashOffset string
}

// BudgetView is the full view model behind the index page and the budget
// partial.
type BudgetView struct {
	Income         int64
	IncomeLabel    string
	ExpensesLabel  string
	Remaining      int64
	RemainingLabel string
	PercentSpent   string
	Overspent      bool
	Categories     []CategoryView
	Segments       []SegmentView
}

func buildBudgetView(reg *core.Registry, snap core.Snapshot) BudgetView {
	view := BudgetView{
		Income:         snap.Income,
		IncomeLabel:    core.FormatAmount(snap.Income),
		ExpensesLabel:  core.FormatAmount(snap.TotalExpenses),
		Remaining:      snap.Remaining,
		RemainingLabel: core.FormatAmount(snap.Remaining),
		PercentSpent:   formatPercent(donut.PercentSpent(snap)),
		Overspent:      snap.Remaining < 0,
	}

	for _, cat := range reg.Categories() {
		amount := snap.Amounts[cat.ID]
		view.Categories = append(view.Categories, CategoryView{
			ID:      cat.ID,
			Name:    cat.Name,
			Tooltip: cat.Tooltip,
			Color:   cat.Color,
			Want:    cat.Kind == core.Want,
			Amount:  amount,
			Label:   core.FormatAmount(amount),
		})
	}

	for _, seg := range donut.Layout(reg, snap) {
		gap := 100 - seg.Span
		if gap < 0 {
			gap = 0
		}
		view.Segments = append(view.Segments, SegmentView{
			CategoryID: seg.CategoryID,
			Color:      seg.Color,
			DashArray:  formatArc(seg.Span) + " " + formatArc(gap),
			DashOffset: formatArc(seg.Offset),
		})
	}

	return view
}

func formatArc(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
