// Package web is the HTTP boundary: session-gated data and control
// endpoints plus the browser dashboard. It performs the authorization
// check before any call reaches the reconciliation engine.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/streetlight/internal/light"
)

// Server serves the dashboard and the polled JSON API.
type Server struct {
	httpServer *http.Server
	engine     *light.Engine
	sessions   *Sessions

	warnThreshold float64
	now           func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a Server over the given engine and session store.
// warnThreshold is the aggregate-current warning level handed to
// ComputeStats (<= 0 selects the default).
func New(addr string, engine *light.Engine, sessions *Sessions, warnThreshold float64) *Server {
	s := &Server{
		engine:        engine,
		sessions:      sessions,
		warnThreshold: warnThreshold,
		now:           time.Now,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("POST")
	r.HandleFunc("/api/data", s.requireSession(s.handleData)).Methods("GET")
	r.HandleFunc("/control", s.requireSession(s.handleControl)).Methods("POST")

	// The dashboard may be served from a different origin than the API.
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: handlers.LoggingHandler(os.Stderr, cors(r)),
	}
	return s
}

// SetClock overrides the timestamp/label clock, for tests.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured handler, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// requireSession rejects calls without a live session token. The engine
// never sees unauthenticated requests.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || !s.sessions.Valid(cookie.Value) {
			writeJSON(w, http.StatusUnauthorized, StatusResponse{Success: false, Message: "unauthorized"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid JSON payload"})
		return
	}

	token, ok := s.sessions.Login(req.Username, req.Password)
	if !ok {
		log.Warn().Str("username", req.Username).Msg("rejected login")
		writeJSON(w, http.StatusUnauthorized, StatusResponse{Success: false, Message: "invalid credentials"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.sessions.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// handleData runs a full reconciliation pass and returns the table, the
// derived stats, and a freshly synthesized trend series.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	table := s.engine.ReconcileAll()
	stats := light.ComputeStats(table, s.warnThreshold)

	onCount := 0
	for _, rec := range table {
		if rec.Relay == light.StateOn {
			onCount++
		}
	}

	now := s.now()
	s.rngMu.Lock()
	charts := synthesizeCharts(now, s.rng, onCount)
	s.rngMu.Unlock()

	writeJSON(w, http.StatusOK, DataResponse{
		Success: true,
		Lights:  lightsJSON(table),
		Stats:   statsJSON(stats),
		Charts:  charts,
		Time:    now.Format("15:04:05"),
	})
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var req ControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ControlResponse{Success: false, Message: "invalid JSON payload"})
		return
	}

	rec, err := s.engine.SetManual(req.LightID, req.Action)
	if err != nil {
		if errors.Is(err, light.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, ControlResponse{Success: false, Message: err.Error()})
			return
		}
		log.Error().Err(err).Int("light_id", req.LightID).Msg("manual control failed")
		writeJSON(w, http.StatusInternalServerError, ControlResponse{Success: false, Message: "internal error"})
		return
	}

	lj := lightJSON(rec)
	writeJSON(w, http.StatusOK, ControlResponse{Success: true, Light: &lj})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderDashboard(w)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}
