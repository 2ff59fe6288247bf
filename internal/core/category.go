package core

import (
	"errors"
	"fmt"
)

const (
	Need Kind = "need"
	Want Kind = "want"
)

type (
	// Kind classifies a category as essential or discretionary spending.
	// It is carried through the wire format unchanged but takes no part
	// in any arithmetic.
	Kind string

	// Category is one entry of the fixed budget catalog. Identity and
	// display metadata are immutable; the amount assigned to a category
	// lives in the Aggregator, not here.
	Category struct {
		ID      string
		Name    string
		Tooltip string
		Kind    Kind
		Color   string
	}

	// Registry is the ordered, closed catalog of budget categories.
	// The set of ids is fixed at construction; every computation walks
	// the full registry in declaration order.
	Registry struct {
		categories []Category
		index      map[string]int
	}
)

var (
	ErrEmptyCategoryID = errors.New("empty category id")
	ErrDuplicateID     = errors.New("duplicate category id")
	ErrInvalidKind     = errors.New("invalid category kind")
	ErrEmptyColor      = errors.New("empty category color")
	ErrAdjacentColors  = errors.New("adjacent categories share a color")
	ErrUnknownCategory = errors.New("unknown category id")
	ErrNoCategories    = errors.New("registry needs at least one category")
)

// NewRegistry validates the catalog and freezes its declaration order.
// Adjacent categories must not share a color so neighbouring donut
// segments stay distinguishable.
func NewRegistry(categories []Category) (*Registry, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		if c.ID == "" {
			return nil, ErrEmptyCategoryID
		}
		if _, ok := index[c.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		if c.Kind != Need && c.Kind != Want {
			return nil, fmt.Errorf("%w: %q for %s", ErrInvalidKind, c.Kind, c.ID)
		}
		if c.Color == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyColor, c.ID)
		}
		if i > 0 && categories[i-1].Color == c.Color {
			return nil, fmt.Errorf("%w: %s and %s", ErrAdjacentColors, categories[i-1].ID, c.ID)
		}
		index[c.ID] = i
	}
	cats := make([]Category, len(categories))
	copy(cats, categories)
	return &Registry{categories: cats, index: index}, nil
}

// DefaultRegistry returns the standard monthly budget catalog.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry([]Category{
		{ID: "housing", Name: "Rent/Mortgage", Tooltip: "Affitto o rata del mutuo", Kind: Need, Color: "#3949AB"},
		{ID: "utilities", Name: "Utilities + other bills", Tooltip: "Bollette e altre utenze", Kind: Need, Color: "#E53935"},
		{ID: "food", Name: "Food and groceries", Tooltip: "Spesa alimentare", Kind: Need, Color: "#4FC3F7"},
		{ID: "debt", Name: "Credit cards + other debt", Tooltip: "Carte di credito e altri debiti", Kind: Need, Color: "#1976D2"},
		{ID: "transportation", Name: "Transportation", Tooltip: "Trasporti", Kind: Need, Color: "#8BC34A"},
		{ID: "savings", Name: "Save and invest", Tooltip: "Risparmio e investimenti", Kind: Need, Color: "#1E88E5"},
		{ID: "online", Name: "Online spending", Tooltip: "Quanto prevedi di spendere online", Kind: Want, Color: "#9C27B0"},
	})
	if err != nil {
		// The default catalog is a compile-time constant in all but form.
		panic(err)
	}
	return reg
}

// Categories returns the catalog in declaration order. The slice is a copy.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Lookup returns the category with the given id.
func (r *Registry) Lookup(id string) (Category, bool) {
	i, ok := r.index[id]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// Contains reports whether id belongs to the catalog.
func (r *Registry) Contains(id string) bool {
	_, ok := r.index[id]
	return ok
}

// IDs returns the category ids in declaration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.categories))
	for i, c := range r.categories {
		out[i] = c.ID
	}
	return out
}

// Len returns the number of categories in the catalog.
func (r *Registry) Len() int {
	return len(r.categories)
}
