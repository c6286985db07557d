// ABOUTME: Tests for the snapshot store covering round-trips, replacement, and the missing-snapshot error.
// ABOUTME: Uses a real sqlite database in a temp directory, matching how the binary runs.
package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/masserfx/kovoterm/client"
)

func openTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveListLoadListRoundTrip(t *testing.T) {
	s := openTestSnapshot(t)

	orders := []client.Order{
		{ID: "z1", Number: "2026-041", Customer: "Strojírny Cheb", Status: "open"},
		{ID: "z2", Number: "2026-042", Customer: "ACME s.r.o.", Status: "done"},
	}
	if err := s.SaveList("zakazky", orders); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var loaded []client.Order
	fetchedAt, err := s.LoadList("zakazky", &loaded)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Customer != "Strojírny Cheb" {
		t.Errorf("round-trip mismatch: %+v", loaded)
	}
	if time.Since(fetchedAt) > time.Minute {
		t.Errorf("fetched_at not recent: %v", fetchedAt)
	}
}

func TestSaveListReplacesPreviousSnapshot(t *testing.T) {
	s := openTestSnapshot(t)

	if err := s.SaveList("dlq", []string{"a"}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := s.SaveList("dlq", []string{"b", "c"}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	var loaded []string
	if _, err := s.LoadList("dlq", &loaded); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 2 || loaded[0] != "b" {
		t.Errorf("expected replacement, got %v", loaded)
	}
}

func TestLoadListMissingEntityReturnsErrNoSnapshot(t *testing.T) {
	s := openTestSnapshot(t)

	var out []client.Order
	_, err := s.LoadList("nikdy", &out)
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestMaterialPricesTypedRoundTrip(t *testing.T) {
	s := openTestSnapshot(t)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	prices := []client.MaterialPrice{
		{ID: "m2", Name: "S355 tyč", Grade: "S355", Form: "tyč", Dimension: "⌀20", UnitPrice: 31, Currency: "CZK", ValidFrom: now, ValidTo: now.AddDate(0, 6, 0), IsActive: false},
		{ID: "m1", Name: "S235 plech", Grade: "S235", Form: "plech", Dimension: "3mm", UnitPrice: 28.5, Currency: "CZK", ValidFrom: now, ValidTo: now.AddDate(1, 0, 0), IsActive: true},
	}
	if err := s.SaveMaterialPrices(prices); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	all, err := s.LoadMaterialPrices(false)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}
	if all[0].Name != "S235 plech" {
		t.Errorf("expected name ordering, got %q first", all[0].Name)
	}
	if !all[0].ValidTo.Equal(now.AddDate(1, 0, 0)) {
		t.Errorf("validity window mangled: %v", all[0].ValidTo)
	}

	active, err := s.LoadMaterialPrices(true)
	if err != nil {
		t.Fatalf("load active failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != "m1" {
		t.Errorf("active filter wrong: %+v", active)
	}
}
