// Package donut lays out the circular budget breakdown: it turns an
// income/amounts snapshot into dash-array arc descriptors for an SVG donut.
package donut

import "bilancio/internal/core"

// RemainingID marks the neutral segment for unspent income.
const RemainingID = "remaining"

// remainingColor is the neutral token for the unspent wedge.
const remainingColor = "#E8E8E8"

// Segment describes one wedge of the donut as percentages of the full
// circle. Offset is in dash-offset form: how much of the circumference to
// skip before drawing, i.e. 100 minus the spans of all earlier segments.
// The rendering primitive consumes offsets in exactly this
// reverse-cumulative shape.
type Segment struct {
	CategoryID string  `json:"categoryId"`
	Color      string  `json:"color"`
	Offset     float64 `json:"offset"`
	Span       float64 `json:"span"`
}

// Layout computes the ordered arc segments for a snapshot. It is a pure
// function and never fails; malformed input was normalized upstream.
//
// Rules:
//   - income <= 0 yields no segments (the render layer shows a placeholder);
//   - categories with amount 0 are skipped, the rest keep the registry's
//     declaration order so re-renders never jitter;
//   - spans are not clamped: a category alone exceeding income produces a
//     span above 100, preserved as an overshoot indicator;
//   - a trailing remaining segment is emitted only while total expenses are
//     below income, and always draws last.
func Layout(reg *core.Registry, snap core.Snapshot) []Segment {
	if snap.Income <= 0 {
		return nil
	}
	income := float64(snap.Income)

	var segments []Segment
	var prior float64
	for _, c := range reg.Categories() {
		amount := snap.Amounts[c.ID]
		if amount <= 0 {
			continue
		}
		span := float64(amount) / income * 100
		segments = append(segments, Segment{
			CategoryID: c.ID,
			Color:      c.Color,
			Offset:     100 - prior,
			Span:       span,
		})
		prior += span
	}

	if snap.TotalExpenses < snap.Income {
		segments = append(segments, Segment{
			CategoryID: RemainingID,
			Color:      remainingColor,
			Offset:     100 - prior,
			Span:       100 - prior,
		})
	}

	return segments
}

// PercentSpent returns total expenses as a percentage of income, for the
// chart's center readout. Zero income reads as zero spent.
func PercentSpent(snap core.Snapshot) float64 {
	if snap.Income <= 0 {
		return 0
	}
	return float64(snap.TotalExpenses) / float64(snap.Income) * 100
}
