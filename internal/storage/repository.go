package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bilancio/internal/core"
	"bilancio/internal/remote"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed budget store. Every save appends a row;
// Fetch reads the newest one, so choosing this backend also gives the
// session persistence across restarts.
type Repository struct {
	db  *sql.DB
	reg *core.Registry
}

func NewRepository(dbPath string, reg *core.Registry) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, reg: reg}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Fetch implements remote.Store by returning the most recent snapshot row.
func (r *Repository) Fetch(ctx context.Context) (core.Snapshot, error) {
	var (
		income  int64
		amounts string
	)
	row := r.db.QueryRowContext(ctx,
		`SELECT income, amounts FROM budget_snapshots ORDER BY id DESC LIMIT 1`)
	if err := row.Scan(&income, &amounts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Snapshot{}, remote.ErrNotFound
		}
		return core.Snapshot{}, fmt.Errorf("read latest snapshot: %w", err)
	}

	wire := map[string]int64{}
	if err := json.Unmarshal([]byte(amounts), &wire); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot amounts: %w", err)
	}
	wire[remote.IncomeKey] = income
	return remote.Decode(r.reg, wire), nil
}

// Save implements remote.Store by appending a snapshot row.
func (r *Repository) Save(ctx context.Context, s core.Snapshot) error {
	_, err := r.insert(ctx, s)
	return err
}

// Archive implements remote.Archiver; the row id doubles as the reference.
func (r *Repository) Archive(ctx context.Context, s core.Snapshot) (string, error) {
	id, err := r.insert(ctx, s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("sqlite:%d", id), nil
}

func (r *Repository) insert(ctx context.Context, s core.Snapshot) (int64, error) {
	amounts, err := json.Marshal(s.Amounts)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot amounts: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_snapshots (income, amounts) VALUES (?, ?)`,
		s.Income, string(amounts))
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot row id: %w", err)
	}

	slog.DebugContext(ctx, "Budget snapshot saved to SQLite",
		"id", id,
		"income", s.Income,
		"total_expenses", s.TotalExpenses)

	return id, nil
}

// History returns up to limit snapshots, newest first.
func (r *Repository) History(ctx context.Context, limit int) ([]core.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT income, amounts FROM budget_snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("read snapshot history: %w", err)
	}
	defer rows.Close()

	var out []core.Snapshot
	for rows.Next() {
		var (
			income  int64
			amounts string
		)
		if err := rows.Scan(&income, &amounts); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		wire := map[string]int64{}
		if err := json.Unmarshal([]byte(amounts), &wire); err != nil {
			return nil, fmt.Errorf("decode snapshot amounts: %w", err)
		}
		wire[remote.IncomeKey] = income
		out = append(out, remote.Decode(r.reg, wire))
	}
	return out, rows.Err()
}
