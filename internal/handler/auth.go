package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ktdash/ktdash/internal/auth"
	"github.com/ktdash/ktdash/internal/model"
	"github.com/ktdash/ktdash/internal/store"
)

// maxCredentialLength bounds login input before any lookup happens.
const maxCredentialLength = 50

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type AuthHandler struct {
	users        *store.UserStore
	sessions     *store.SessionStore
	rosters      *store.RosterStore
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, rs *store.RosterStore, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:        us,
		sessions:     ss,
		rosters:      rs,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmpassword"`
}

type userWithRosters struct {
	model.User
	Rosters []model.Roster `json:"rosters"`
}

// Login authenticates credentials and mints a session. Unknown usernames
// and wrong passwords produce byte-identical failures so the endpoint
// cannot be used to enumerate accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and password are required"})
		return
	}
	if len(req.Username) > maxCredentialLength || len(req.Password) > maxCredentialLength {
		// Deliberately vague; the register endpoint names exact bounds.
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input"})
		return
	}

	user, err := h.users.GetByUsername(req.Username)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PassHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
		return
	}

	// Session creation is the last step; a failed login leaves no state.
	sess, err := h.sessions.Create(user.UserID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	h.setSessionCookie(w, auth.ComposeToken(sess.SessionID, user.UserID), auth.CookieMaxAge)
	writeJSON(w, http.StatusOK, user)
}

// CheckSession validates the asid cookie and returns the session's user.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not logged in"})
		return
	}

	sessionID, userID, ok := auth.ParseToken(cookie.Value)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid session"})
		return
	}

	sess, err := h.sessions.GetBySessionID(sessionID)
	if err != nil {
		h.logger.Error("session lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if sess == nil || sess.UserID != userID {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid session"})
		return
	}

	user, err := h.users.GetByUserID(sess.UserID)
	if err != nil {
		h.logger.Error("session user lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid session"})
		return
	}

	if err := h.sessions.Touch(sess.SessionID); err != nil {
		h.logger.Error("touch session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout is idempotent: the session row is removed best-effort and the
// cookie is always cleared, whether or not a session existed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
		if sessionID := auth.TokenSessionID(cookie.Value); sessionID != "" {
			if err := h.sessions.DeleteBySessionID(sessionID); err != nil {
				h.logger.Error("delete session", "error", err)
			}
		}
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Register creates a new account. Validation failures name the exact rule
// that was broken; only the UNIQUE constraint on username is authoritative
// for uniqueness, the pre-check is a fast path.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	if req.Username == "" || req.Password == "" || req.ConfirmPassword == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "All fields are required"})
		return
	}
	if req.Password != req.ConfirmPassword {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Passwords do not match"})
		return
	}
	if !usernamePattern.MatchString(req.Username) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid username - Only letters, numbers, and underscores allowed"})
		return
	}
	if len(req.Username) < 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username must be at least 5 characters"})
		return
	}
	if len(req.Username) > 50 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username must be at most 50 characters"})
		return
	}
	if strings.Contains(req.Username, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please do not use an email address as your username"})
		return
	}

	existing, err := h.users.GetByUsername(req.Username)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already taken"})
		return
	}

	userID, err := auth.NewUniqueShortID(r.Context(), h.users.UserIDExists)
	if err != nil {
		h.logger.Error("generate userid", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	passhash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	user, err := h.users.Create(userID, req.Username, passhash)
	if err != nil {
		// A concurrent registration can win the race between the
		// pre-check and the insert; the constraint decides.
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already taken"})
			return
		}
		h.logger.Error("create user", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// GetUser looks up a user by username or userid and returns the profile
// with the user's rosters attached.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	userID := r.URL.Query().Get("userid")

	if username == "" && userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username or userid is required"})
		return
	}

	var (
		user *model.User
		err  error
	)
	if username != "" {
		user, err = h.users.GetByUsername(username)
	} else {
		user, err = h.users.GetByUserID(userID)
	}
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}

	rosters, err := h.rosters.ListByUserID(user.UserID)
	if err != nil {
		h.logger.Error("list user rosters", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if rosters == nil {
		rosters = []model.Roster{}
	}

	writeJSON(w, http.StatusOK, userWithRosters{User: *user, Rosters: rosters})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookie,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookie,
	})
}
