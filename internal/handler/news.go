package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ktdash/ktdash/internal/model"
	"github.com/ktdash/ktdash/internal/store"
)

const (
	defaultNewsMax = 20
	newsMaxCap     = 1000
)

type NewsHandler struct {
	news   *store.NewsStore
	logger *slog.Logger
}

func NewNewsHandler(ns *store.NewsStore, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{news: ns, logger: logger}
}

// List returns announcements newest first. The max query param is clamped
// to a hard cap so a single request cannot drain the table.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	max := defaultNewsMax
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid max"})
			return
		}
		max = n
	}
	if max > newsMaxCap {
		max = newsMaxCap
	}

	items, err := h.news.List(max)
	if err != nil {
		h.logger.Error("list news", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if items == nil {
		items = []model.News{}
	}

	writeJSON(w, http.StatusOK, items)
}
