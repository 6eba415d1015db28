package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ktdash/ktdash/internal/handler"
	"github.com/ktdash/ktdash/internal/middleware"
	"github.com/ktdash/ktdash/internal/store"
	ws "github.com/ktdash/ktdash/internal/websocket"
)

// Config carries the environment-dependent knobs the server needs.
type Config struct {
	// SecureCookies marks session cookies Secure; enabled in production.
	SecureCookies bool
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	rosterH      *handler.RosterHandler
	newsH        *handler.NewsHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	rosterStore := store.NewRosterStore(db)
	operativeStore := store.NewOperativeStore(db)
	equipmentStore := store.NewEquipmentStore(db)
	newsStore := store.NewNewsStore(db)

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, rosterStore, cfg.SecureCookies, logger.With("component", "auth")),
		rosterH:      handler.NewRosterHandler(rosterStore, operativeStore, equipmentStore, sessionStore, hub, logger.With("component", "roster")),
		newsH:        handler.NewNewsHandler(newsStore, logger.With("component", "news")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Session endpoints. Login is rate limited; validation and logout are not.
	mux.HandleFunc("GET /api/auth/session", s.authH.CheckSession)
	mux.HandleFunc("POST /api/auth/session", s.rateLimitedHandler(s.authH.Login))
	mux.HandleFunc("DELETE /api/auth/session", s.authH.Logout)
	mux.HandleFunc("POST /api/auth/user", s.rateLimitedHandler(s.authH.Register))
	mux.HandleFunc("GET /api/auth/user", s.authH.GetUser)

	// Roster reads are public; the handler resolves the viewer itself.
	mux.HandleFunc("GET /api/roster", s.rosterH.Get)

	// Roster mutations require a valid session.
	requireAuth := middleware.RequireAuth(s.sessionStore, s.userStore, s.logger.With("component", "auth_middleware"))
	mux.Handle("POST /api/roster", requireAuth(http.HandlerFunc(s.rosterH.Create)))
	mux.Handle("PUT /api/roster/{rosterid}", requireAuth(http.HandlerFunc(s.rosterH.Update)))
	mux.Handle("DELETE /api/roster/{rosterid}", requireAuth(http.HandlerFunc(s.rosterH.Delete)))
	mux.Handle("POST /api/roster/{rosterid}/operatives", requireAuth(http.HandlerFunc(s.rosterH.CreateOperative)))
	mux.Handle("PUT /api/roster/{rosterid}/operatives/{rosteropid}", requireAuth(http.HandlerFunc(s.rosterH.UpdateOperative)))
	mux.Handle("DELETE /api/roster/{rosterid}/operatives/{rosteropid}", requireAuth(http.HandlerFunc(s.rosterH.DeleteOperative)))
	mux.Handle("PUT /api/roster/{rosterid}/equipment", requireAuth(http.HandlerFunc(s.rosterH.ReplaceEquipment)))

	mux.HandleFunc("GET /api/news", s.newsH.List)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
	mux.HandleFunc("GET /health", s.healthHandler)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
