package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ktdash/ktdash/internal/auth"
	"github.com/ktdash/ktdash/internal/model"
	"github.com/ktdash/ktdash/internal/store"
	"github.com/ktdash/ktdash/internal/websocket"
)

// maxRosterNameLength caps user-supplied roster names.
const maxRosterNameLength = 100

var validOrders = map[string]bool{
	"conceal": true,
	"engage":  true,
}

type RosterHandler struct {
	rosters    *store.RosterStore
	operatives *store.OperativeStore
	equipment  *store.EquipmentStore
	sessions   *store.SessionStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewRosterHandler(rs *store.RosterStore, os *store.OperativeStore, es *store.EquipmentStore, ss *store.SessionStore, hub *websocket.Hub, logger *slog.Logger) *RosterHandler {
	return &RosterHandler{
		rosters:    rs,
		operatives: os,
		equipment:  es,
		sessions:   ss,
		hub:        hub,
		logger:     logger,
	}
}

type rosterRequest struct {
	RosterName  string `json:"rostername"`
	FactionID   string `json:"factionid"`
	KillTeamID  string `json:"killteamid"`
	Notes       string `json:"notes"`
	PortraitURL string `json:"portraiturl"`
}

type operativeCreateRequest struct {
	OpName string `json:"opname"`
	OpType string `json:"optype"`
	Wounds int    `json:"wounds"`
}

type operativeUpdateRequest struct {
	OpName    string `json:"opname"`
	CurWounds int    `json:"curwounds"`
	OpOrder   string `json:"oporder"`
	Seq       int    `json:"seq"`
}

type equipmentRequest struct {
	Equipments []model.RosterEquipment `json:"equipments"`
}

// Get serves three shapes from one endpoint, mirroring the legacy dashboard
// API: a single roster by rosterId, a random spotlight pick, or the calling
// user's roster list when no rosterId is given.
func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rosterID := q.Get("rosterId")

	// Flag params are single-character; anything longer is a malformed URL,
	// not a falsy flag.
	if len(q.Get("loadRosterDetail")) > 1 || len(q.Get("randomSpotlight")) > 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid params"})
		return
	}
	loadDetail := q.Get("loadRosterDetail") == "1"

	if q.Get("randomSpotlight") == "1" {
		id, err := h.rosters.RandomRosterID()
		if err != nil {
			h.logger.Error("random spotlight", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
			return
		}
		if id == "" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Roster Not Found"})
			return
		}
		rosterID = id
	}

	if rosterID == "" {
		h.listOwn(w, r, loadDetail)
		return
	}
	if len(rosterID) > auth.ShortIDLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid params"})
		return
	}

	ro, err := h.rosters.GetByRosterID(rosterID)
	if err != nil {
		h.logger.Error("get roster", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if ro == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Roster Not Found"})
		return
	}

	if loadDetail {
		if err := h.attachDetail(ro); err != nil {
			h.logger.Error("load roster detail", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
			return
		}
	}

	// Owners browsing their own roster do not inflate the view count.
	if h.viewerUserID(r) != ro.UserID {
		if err := h.rosters.IncrementViewCount(ro.RosterID); err != nil {
			h.logger.Error("increment view count", "error", err)
		} else {
			ro.ViewCount++
		}
	}

	writeJSON(w, http.StatusOK, ro)
}

func (h *RosterHandler) listOwn(w http.ResponseWriter, r *http.Request, loadDetail bool) {
	userID := h.viewerUserID(r)
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not logged in"})
		return
	}

	rosters, err := h.rosters.ListByUserID(userID)
	if err != nil {
		h.logger.Error("list rosters", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if rosters == nil {
		rosters = []model.Roster{}
	}
	if loadDetail {
		for i := range rosters {
			if err := h.attachDetail(&rosters[i]); err != nil {
				h.logger.Error("load roster detail", "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
				return
			}
		}
	}

	writeJSON(w, http.StatusOK, rosters)
}

func (h *RosterHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.RosterName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Roster name is required"})
		return
	}
	if len(req.RosterName) > maxRosterNameLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Roster name must be at most 100 characters"})
		return
	}

	rosterID, err := auth.NewUniqueShortID(r.Context(), h.rosters.RosterIDExists)
	if err != nil {
		h.logger.Error("generate rosterid", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	ro, err := h.rosters.Create(rosterID, userID, req.RosterName, req.FactionID, req.KillTeamID)
	if err != nil {
		h.logger.Error("create roster", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("roster", "created", ro.RosterID, nil))
	writeJSON(w, http.StatusCreated, ro)
}

func (h *RosterHandler) Update(w http.ResponseWriter, r *http.Request) {
	ro, ok := h.ownedRoster(w, r)
	if !ok {
		return
	}

	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.RosterName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Roster name is required"})
		return
	}
	if len(req.RosterName) > maxRosterNameLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Roster name must be at most 100 characters"})
		return
	}

	updated, err := h.rosters.Update(ro.RosterID, req.RosterName, req.FactionID, req.KillTeamID, req.Notes, req.PortraitURL)
	if err != nil {
		h.logger.Error("update roster", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("roster", "updated", updated.RosterID, nil))
	writeJSON(w, http.StatusOK, updated)
}

func (h *RosterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ro, ok := h.ownedRoster(w, r)
	if !ok {
		return
	}

	if err := h.rosters.Delete(ro.RosterID); err != nil {
		h.logger.Error("delete roster", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("roster", "deleted", ro.RosterID, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *RosterHandler) CreateOperative(w http.ResponseWriter, r *http.Request) {
	ro, ok := h.ownedRoster(w, r)
	if !ok {
		return
	}

	var req operativeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.OpName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Operative name is required"})
		return
	}
	if req.Wounds < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid wounds"})
		return
	}

	op, err := h.operatives.Create(ro.RosterID, req.OpName, req.OpType, req.Wounds)
	if err != nil {
		h.logger.Error("create operative", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("operative", "created", strconv.FormatInt(op.RosterOpID, 10), map[string]any{"rosterid": ro.RosterID}))
	writeJSON(w, http.StatusCreated, op)
}

func (h *RosterHandler) UpdateOperative(w http.ResponseWriter, r *http.Request) {
	ro, ok := h.ownedRoster(w, r)
	if !ok {
		return
	}

	opID, err := parseIDParam(r, "rosteropid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid operative ID"})
		return
	}

	op, err := h.operatives.GetByID(opID)
	if err != nil {
		h.logger.Error("get operative", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if op == nil || op.RosterID != ro.RosterID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Operative not found"})
		return
	}

	var req operativeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.OpName == "" {
		req.OpName = op.OpName
	}
	if req.OpOrder == "" {
		req.OpOrder = op.OpOrder
	} else if !validOrders[req.OpOrder] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Order must be conceal or engage"})
		return
	}
	if req.CurWounds < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid wounds"})
		return
	}
	if req.Seq == 0 {
		req.Seq = op.Seq
	}

	updated, err := h.operatives.Update(op.RosterOpID, req.OpName, req.CurWounds, req.OpOrder, req.Seq)
	if err != nil {
		h.logger.Error("update operative", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("operative", "updated", strconv.FormatInt(updated.RosterOpID, 10), map[string]any{"rosterid": ro.RosterID}))
	writeJSON(w, http.StatusOK, updated)
}

func (h *RosterHandler) DeleteOperative(w http.ResponseWriter, r *http.Request) {
	ro, ok := h.ownedRoster(w, r)
	if !ok {
		return
	}

	opID, err := parseIDParam(r, "rosteropid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid operative ID"})
		return
	}

	op, err := h.operatives.GetByID(opID)
	if err != nil {
		h.logger.Error("get operative", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if op == nil || op.RosterID != ro.RosterID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Operative not found"})
		return
	}

	if err := h.operatives.Delete(op.RosterOpID); err != nil {
		h.logger.Error("delete operative", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("operative", "deleted", strconv.FormatInt(op.RosterOpID, 10), map[string]any{"rosterid": ro.RosterID}))
	w.WriteHeader(http.StatusNoContent)
}

// ReplaceEquipment swaps the roster's full equipment selection in one call.
func (h *RosterHandler) ReplaceEquipment(w http.ResponseWriter, r *http.Request) {
	ro, ok := h.ownedRoster(w, r)
	if !ok {
		return
	}

	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	for _, item := range req.Equipments {
		if item.EqName == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Equipment name is required"})
			return
		}
	}

	items, err := h.equipment.ReplaceForRoster(ro.RosterID, req.Equipments)
	if err != nil {
		h.logger.Error("replace equipment", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if items == nil {
		items = []model.RosterEquipment{}
	}

	h.hub.Broadcast(websocket.NewMessage("equipment", "updated", ro.RosterID, nil))
	writeJSON(w, http.StatusOK, items)
}

// ownedRoster resolves the {rosterid} path param and enforces ownership.
// It writes the error response itself when the check fails.
func (h *RosterHandler) ownedRoster(w http.ResponseWriter, r *http.Request) (*model.Roster, bool) {
	rosterID := r.PathValue("rosterid")

	ro, err := h.rosters.GetByRosterID(rosterID)
	if err != nil {
		h.logger.Error("get roster", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return nil, false
	}
	if ro == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Roster Not Found"})
		return nil, false
	}
	if ro.UserID != auth.UserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return nil, false
	}
	return ro, true
}

func (h *RosterHandler) attachDetail(ro *model.Roster) error {
	ops, err := h.operatives.ListByRosterID(ro.RosterID)
	if err != nil {
		return err
	}
	eq, err := h.equipment.ListByRosterID(ro.RosterID)
	if err != nil {
		return err
	}
	if ops == nil {
		ops = []model.RosterOperative{}
	}
	if eq == nil {
		eq = []model.RosterEquipment{}
	}
	ro.Operatives = ops
	ro.Equipments = eq
	return nil
}

// viewerUserID identifies the caller from the session cookie on routes that
// work with or without a login. Returns "" for anonymous or invalid cookies.
func (h *RosterHandler) viewerUserID(r *http.Request) string {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	sessionID, userID, ok := auth.ParseToken(cookie.Value)
	if !ok {
		return ""
	}
	sess, err := h.sessions.GetBySessionID(sessionID)
	if err != nil || sess == nil || sess.UserID != userID {
		return ""
	}
	// A successful validation refreshes activity, same as the auth middleware.
	if err := h.sessions.Touch(sess.SessionID); err != nil {
		h.logger.Error("touch session", "error", err)
	}
	return sess.UserID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
