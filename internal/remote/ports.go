// Package remote defines the ports to the remote budget store and the flat
// wire form of a budget snapshot.
package remote

import (
	"context"
	"errors"

	"bilancio/internal/core"
)

var (
	// ErrNotFound means the store holds no budget yet.
	ErrNotFound = errors.New("no budget stored")

	// ErrUnauthorized marks an authorization failure so an explicit,
	// user-initiated save can report it distinctly from a generic one.
	ErrUnauthorized = errors.New("not authorized")
)

// Ports for outbound adapters.
type (
	// Store holds one remote copy of the budget snapshot. Save is an
	// idempotent replacement of the stored state, never an increment.
	Store interface {
		Fetch(ctx context.Context) (core.Snapshot, error)
		Save(ctx context.Context, s core.Snapshot) error
	}

	// Archiver appends an immutable history row for an explicitly saved
	// budget and returns an adapter-specific reference to it.
	Archiver interface {
		Archive(ctx context.Context, s core.Snapshot) (ref string, err error)
	}
)
