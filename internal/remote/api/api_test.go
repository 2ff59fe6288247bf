package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/remote"
)

func TestFetchDecodesLatestBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/budget/latest" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer segreto" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]int64{
			remote.IncomeKey: 5000,
			"housing":        2000,
			"food":           1000,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "segreto", core.DefaultRegistry())
	snap, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if snap.Income != 5000 || snap.Amounts["housing"] != 2000 || snap.TotalExpenses != 3000 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestFetchMapsStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, remote.ErrNotFound},
		{"no content", http.StatusNoContent, remote.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, remote.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, remote.ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c := New(srv.URL, "", core.DefaultRegistry())
			if _, err := c.Fetch(context.Background()); !errors.Is(err, tc.want) {
				t.Errorf("Fetch error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSavePostsWirePayload(t *testing.T) {
	var got map[string]int64
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	c := New(srv.URL, "", core.DefaultRegistry())
	agg := core.NewAggregator(core.DefaultRegistry())
	agg.SetIncome(4000)
	agg.SetCategoryAmount("food", 900)

	if err := c.Save(context.Background(), agg.Snapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != "/budget/auto-sync" {
		t.Errorf("path = %q", path)
	}
	if got[remote.IncomeKey] != 4000 || got["food"] != 900 {
		t.Errorf("payload = %v", got)
	}
	if _, ok := got["totalExpenses"]; ok {
		t.Error("payload carries derived totals")
	}
}

func TestSaveExplicitUsesBudgetEndpoint(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	}))
	defer srv.Close()

	c := New(srv.URL, "", core.DefaultRegistry())
	if err := c.SaveExplicit(context.Background(), core.Snapshot{Income: 100}); err != nil {
		t.Fatalf("SaveExplicit: %v", err)
	}
	if path != "/budget" {
		t.Errorf("path = %q", path)
	}
}

func TestSaveUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "scaduto", core.DefaultRegistry())
	err := c.Save(context.Background(), core.Snapshot{Income: 100})
	if !errors.Is(err, remote.ErrUnauthorized) {
		t.Errorf("Save error = %v, want ErrUnauthorized", err)
	}
}
