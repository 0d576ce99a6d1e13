package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"portfolio/internal/app"
	"portfolio/internal/ratelimit"
	"portfolio/internal/util"
	"portfolio/pkg/validate"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App           *app.App
	RedisAddr     string
	RedisPassword string

	TrustedProxyCIDRs []string

	ContactRateLimit    int
	ContactRateWindow   time.Duration
	SubscribeRateLimit  int
	SubscribeRateWindow time.Duration
	VoteRateLimit       int
	VoteRateWindow      time.Duration

	// Limiter overrides for tests; when nil, Redis-backed limiters are
	// built from RedisAddr.
	ContactLimiter   ratelimit.Limiter
	SubscribeLimiter ratelimit.Limiter
	VoteLimiter      ratelimit.Limiter
}

// Server exposes the portfolio HTTP API.
type Server struct {
	app              *app.App
	mux              *http.ServeMux
	trustedProxies   *util.TrustedProxies
	contactLimiter   ratelimit.Limiter
	contactWindow    time.Duration
	subscribeLimiter ratelimit.Limiter
	subscribeWindow  time.Duration
	voteLimiter      ratelimit.Limiter
	voteWindow       time.Duration
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("server requires an app")
	}
	if cfg.ContactRateLimit <= 0 {
		cfg.ContactRateLimit = 5
	}
	if cfg.ContactRateWindow <= 0 {
		cfg.ContactRateWindow = 15 * time.Minute
	}
	if cfg.SubscribeRateLimit <= 0 {
		cfg.SubscribeRateLimit = 3
	}
	if cfg.SubscribeRateWindow <= 0 {
		cfg.SubscribeRateWindow = time.Hour
	}
	if cfg.VoteRateLimit <= 0 {
		cfg.VoteRateLimit = 1
	}
	if cfg.VoteRateWindow <= 0 {
		cfg.VoteRateWindow = 24 * time.Hour
	}
	trusted, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}
	newLimiter := func(name string, override ratelimit.Limiter, limit int, window time.Duration) (ratelimit.Limiter, error) {
		if override != nil {
			return override, nil
		}
		prefix := "portfolio:ratelimit:" + name
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, window)
		if err != nil {
			return nil, fmt.Errorf("init %s limiter: %w", name, err)
		}
		return limiter, nil
	}
	contactLimiter, err := newLimiter("contact", cfg.ContactLimiter, cfg.ContactRateLimit, cfg.ContactRateWindow)
	if err != nil {
		return nil, err
	}
	subscribeLimiter, err := newLimiter("subscribe", cfg.SubscribeLimiter, cfg.SubscribeRateLimit, cfg.SubscribeRateWindow)
	if err != nil {
		return nil, err
	}
	voteLimiter, err := newLimiter("vote", cfg.VoteLimiter, cfg.VoteRateLimit, cfg.VoteRateWindow)
	if err != nil {
		return nil, err
	}
	s := &Server{
		app:              cfg.App,
		mux:              http.NewServeMux(),
		trustedProxies:   trusted,
		contactLimiter:   contactLimiter,
		contactWindow:    cfg.ContactRateWindow,
		subscribeLimiter: subscribeLimiter,
		subscribeWindow:  cfg.SubscribeRateWindow,
		voteLimiter:      voteLimiter,
		voteWindow:       cfg.VoteRateWindow,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog("portfolio", s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// public write endpoints
	s.mux.HandleFunc("/api/contact", s.handleContact)
	s.mux.HandleFunc("/api/subscribe", s.handleSubscribe)
	s.mux.HandleFunc("/api/fire-counter", s.handleFireCounter)

	// portfolio content
	s.mux.HandleFunc("/api/projects", s.handleListOf(s.listProjects))
	s.mux.HandleFunc("/api/skills", s.handleListOf(s.listSkills))
	s.mux.HandleFunc("/api/tech-stack", s.handleListOf(s.listTechStack))
	s.mux.HandleFunc("/api/experience", s.handleListOf(s.listExperiences))

	// admin listings. No authentication here: deployments must front these
	// with their own access control.
	s.mux.HandleFunc("/api/contact-messages", s.handleListOf(s.listContactMessages))
	s.mux.HandleFunc("/api/subscribers", s.handleListOf(s.listSubscribers))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.contactLimiter, s.contactWindow, "Too many messages sent. Please try again later.") {
		s.audit(r, "contact.submit", "rate_limited")
		return
	}
	var in validate.ContactInput
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&in); err != nil {
		s.audit(r, "contact.submit", "fail", "reason", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	saved, err := s.app.SubmitContact(in)
	if err != nil {
		var fieldErrs validate.FieldErrors
		if errors.As(err, &fieldErrs) {
			s.audit(r, "contact.submit", "fail", "reason", "validation", "fields", fieldErrs.Error())
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Validation failed",
				"errors":  fieldErrs,
			})
			return
		}
		slog.Error("contact submit failed", "err", err, "request_id", util.RequestIDFromRequest(r))
		writeError(w, http.StatusInternalServerError, "Failed to submit form. Please try again later.")
		return
	}
	s.audit(r, "contact.submit", "success", "message_id", saved.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Message received! I will get back to you soon.",
		"data":    saved,
	})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.subscribeLimiter, s.subscribeWindow, "Too many subscription attempts. Please try again later.") {
		s.audit(r, "newsletter.subscribe", "rate_limited")
		return
	}
	var req subscribeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.audit(r, "newsletter.subscribe", "fail", "reason", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sub, already, err := s.app.Subscribe(req.Email, s.clientIP(r))
	if err != nil {
		if isEmailError(err) {
			s.audit(r, "newsletter.subscribe", "fail", "reason", "validation")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("subscribe failed", "err", err, "request_id", util.RequestIDFromRequest(r))
		writeError(w, http.StatusInternalServerError, "Failed to subscribe. Please try again later.")
		return
	}
	message := "Thanks for subscribing!"
	if already {
		message = "You are already subscribed."
	}
	s.audit(r, "newsletter.subscribe", "success", "already", already)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"data":    map[string]string{"email": sub.Email},
	})
}

func (s *Server) handleFireCounter(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		count, err := s.app.FireCount()
		if err != nil {
			slog.Error("read fire counter failed", "err", err, "request_id", util.RequestIDFromRequest(r))
			writeError(w, http.StatusInternalServerError, "Failed to load counter.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": count})
	case http.MethodPost:
		s.handleCastVote(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	if !s.allowRate(w, r, s.voteLimiter, s.voteWindow, "Vote limit reached. Try again tomorrow.") {
		s.audit(r, "fire.vote", "rate_limited")
		return
	}
	count, err := s.app.CastVote(s.clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, app.ErrAlreadyVotedToday) {
			s.audit(r, "fire.vote", "fail", "reason", "duplicate")
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		slog.Error("cast vote failed", "err", err, "request_id", util.RequestIDFromRequest(r))
		writeError(w, http.StatusInternalServerError, "Failed to record vote. Please try again later.")
		return
	}
	s.audit(r, "fire.vote", "success", "count", count)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Thanks for the fire!",
		"count":   count,
	})
}

// handleListOf adapts a list accessor into a GET-only JSON handler.
func (s *Server) handleListOf(list func() (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		items, err := list()
		if err != nil {
			slog.Error("list failed", "path", r.URL.Path, "err", err, "request_id", util.RequestIDFromRequest(r))
			writeError(w, http.StatusInternalServerError, "Failed to load data.")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (s *Server) listContactMessages() (any, error) { return s.app.ListContactMessages() }
func (s *Server) listSubscribers() (any, error)     { return s.app.ListSubscribers() }
func (s *Server) listProjects() (any, error)        { return s.app.ListProjects() }
func (s *Server) listSkills() (any, error)          { return s.app.ListSkills() }
func (s *Server) listTechStack() (any, error)       { return s.app.ListTechStack() }
func (s *Server) listExperiences() (any, error)     { return s.app.ListExperiences() }

type subscribeRequest struct {
	Email string `json:"email"`
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter ratelimit.Limiter, window time.Duration, msg string) bool {
	if limiter.Allow(s.clientIP(r)) {
		return true
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func (s *Server) clientIP(r *http.Request) string {
	ip := util.ClientIP(r, s.trustedProxies)
	if ip == "" {
		return "unknown"
	}
	return ip
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", s.clientIP(r),
		"request_id", util.RequestIDFromRequest(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func isEmailError(err error) bool {
	return errors.Is(err, validate.ErrEmailRequired) ||
		errors.Is(err, validate.ErrEmailInvalid) ||
		errors.Is(err, validate.ErrEmailDisposable)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}
