package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ktdash/ktdash/internal/auth"
	"github.com/ktdash/ktdash/internal/store"
)

// RequireAuth validates the asid session cookie and populates AuthContext.
// This is an API middleware: failures are JSON 401s, never redirects.
func RequireAuth(sessions *store.SessionStore, users *store.UserStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				writeAuthError(w, http.StatusUnauthorized, "Not logged in")
				return
			}

			sessionID, userID, ok := auth.ParseToken(cookie.Value)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Invalid session")
				return
			}

			sess, err := sessions.GetBySessionID(sessionID)
			if err != nil {
				logger.Error("session lookup", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "Server error")
				return
			}
			// The token's user part must agree with the stored session owner.
			// sessionid alone is authoritative; the cross-check makes a
			// tampered token fail the same way as an unknown one.
			if sess == nil || sess.UserID != userID {
				writeAuthError(w, http.StatusUnauthorized, "Invalid session")
				return
			}

			user, err := users.GetByUserID(sess.UserID)
			if err != nil {
				logger.Error("user lookup", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "Server error")
				return
			}
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid session")
				return
			}

			if err := sessions.Touch(sess.SessionID); err != nil {
				logger.Error("touch session", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "Server error")
				return
			}

			ac := auth.AuthContext{
				UserID:    user.UserID,
				Username:  user.Username,
				SessionID: sess.SessionID,
			}
			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
