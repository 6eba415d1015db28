package store

import (
	"testing"
	"time"

	"github.com/ktdash/ktdash/internal/database"
)

func setupNewsTestDB(t *testing.T) *NewsStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewNewsStore(db)
}

func TestNewsListOrderAndLimit(t *testing.T) {
	ns := setupNewsTestDB(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := ns.Create("Update", "body", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("create news: %v", err)
		}
	}

	items, err := ns.List(3)
	if err != nil {
		t.Fatalf("list news: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Date.After(items[i-1].Date) {
			t.Errorf("news not in descending date order: %v before %v", items[i-1].Date, items[i].Date)
		}
	}
}

func TestNewsListEmpty(t *testing.T) {
	ns := setupNewsTestDB(t)

	items, err := ns.List(20)
	if err != nil {
		t.Fatalf("list news: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len = %d, want 0", len(items))
	}
}
