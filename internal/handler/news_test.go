package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ktdash/ktdash/internal/database"
	"github.com/ktdash/ktdash/internal/model"
	"github.com/ktdash/ktdash/internal/store"
)

func setupNewsHandler(t *testing.T) (*NewsHandler, *store.NewsStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ns := store.NewNewsStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNewsHandler(ns, logger), ns
}

func TestNewsList(t *testing.T) {
	h, ns := setupNewsHandler(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := ns.Create("Update", "body", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("create news: %v", err)
		}
	}

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var items []model.News
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode news: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[0].Date.Before(items[1].Date) {
		t.Error("news not newest first")
	}
}

func TestNewsListMaxParam(t *testing.T) {
	h, ns := setupNewsHandler(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := ns.Create("Update", "body", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("create news: %v", err)
		}
	}

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/news?max=2", nil))
	var items []model.News
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode news: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}

	// Oversized max is clamped, not rejected.
	rr = httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/news?max=99999", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestNewsListInvalidMax(t *testing.T) {
	h, _ := setupNewsHandler(t)

	for _, raw := range []string{"abc", "0", "-5"} {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/news?max="+raw, nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("max=%q: status = %d, want 400", raw, rr.Code)
		}
		if got := errorMessage(t, rr); got != "Invalid max" {
			t.Errorf("max=%q: error = %q", raw, got)
		}
	}
}

func TestNewsListEmpty(t *testing.T) {
	h, _ := setupNewsHandler(t)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("body = %q, want empty array", rr.Body.String())
	}
}
