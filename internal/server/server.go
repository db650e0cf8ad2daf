package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentdesk/talentdesk/internal/config"
	"github.com/talentdesk/talentdesk/internal/db"
	"github.com/talentdesk/talentdesk/internal/server/middleware"
	"github.com/talentdesk/talentdesk/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	db            *db.DB
	cfg           *config.ServerConfig
	rateLimiter   *ratelimit.Limiter
	jwtService    *JWTService
	userService   *UserService
	authHandler   *AuthHandler
	allowedOrigin string
}

// New creates a new server instance
func New(cfg *config.ServerConfig) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:            database,
		cfg:           cfg,
		allowedOrigin: cfg.AllowedOrigin,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig(cfg.RequestsPerMin))

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s, s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.router()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// router builds the route table. Everything under /api requires a valid
// bearer token except the auth endpoints themselves.
func (s *Server) router() http.Handler {
	mux := http.NewServeMux()
	authMW := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMW(h))
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth endpoints
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	protected("PUT /api/auth/password", s.authHandler.UpdatePassword)

	// Companies
	protected("GET /api/companies", s.handleListCompanies)
	protected("POST /api/companies", s.handleCreateCompany)
	protected("GET /api/companies/{id}", s.handleGetCompany)
	protected("PATCH /api/companies/{id}", s.handleUpdateCompany)
	protected("DELETE /api/companies/{id}", s.handleDeleteCompany)
	protected("GET /api/companies/{id}/addresses", s.handleListAddresses(db.EntityTypeCompany))
	protected("POST /api/companies/{id}/addresses", s.handleCreateAddress(db.EntityTypeCompany))
	protected("GET /api/companies/{id}/emails", s.handleListEmails(db.EntityTypeCompany))
	protected("POST /api/companies/{id}/emails", s.handleCreateEmail(db.EntityTypeCompany))
	protected("GET /api/companies/{id}/phones", s.handleListPhones(db.EntityTypeCompany))
	protected("POST /api/companies/{id}/phones", s.handleCreatePhone(db.EntityTypeCompany))

	// Contacts
	protected("GET /api/contacts", s.handleListContacts)
	protected("POST /api/contacts", s.handleCreateContact)
	protected("GET /api/contacts/{id}", s.handleGetContact)
	protected("PATCH /api/contacts/{id}", s.handleUpdateContact)
	protected("DELETE /api/contacts/{id}", s.handleDeleteContact)
	protected("GET /api/contacts/{id}/addresses", s.handleListAddresses(db.EntityTypeContact))
	protected("POST /api/contacts/{id}/addresses", s.handleCreateAddress(db.EntityTypeContact))
	protected("GET /api/contacts/{id}/emails", s.handleListEmails(db.EntityTypeContact))
	protected("POST /api/contacts/{id}/emails", s.handleCreateEmail(db.EntityTypeContact))
	protected("GET /api/contacts/{id}/phones", s.handleListPhones(db.EntityTypeContact))
	protected("POST /api/contacts/{id}/phones", s.handleCreatePhone(db.EntityTypeContact))

	// Sub-entities addressed directly
	protected("PATCH /api/addresses/{id}", s.handleUpdateAddress)
	protected("DELETE /api/addresses/{id}", s.handleDeleteAddress)
	protected("PATCH /api/emails/{id}", s.handleUpdateEmail)
	protected("DELETE /api/emails/{id}", s.handleDeleteEmail)
	protected("PATCH /api/phones/{id}", s.handleUpdatePhone)
	protected("DELETE /api/phones/{id}", s.handleDeletePhone)

	// Field definition registry
	protected("GET /api/field-definitions", s.handleListFieldDefinitions)
	protected("POST /api/field-definitions", s.handleCreateFieldDefinition)
	protected("GET /api/field-definitions/{id}", s.handleGetFieldDefinition)
	protected("PATCH /api/field-definitions/{id}", s.handleUpdateFieldDefinition)
	protected("DELETE /api/field-definitions/{id}", s.handleDeleteFieldDefinition)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.allowedOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP from RemoteAddr; X-Forwarded-For is client-controlled and
// not trusted here.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}
	log.Printf("[rate-limit] limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, errorBody{
		Error:   "RateLimitError",
		Message: "rate limit exceeded, try again later",
	})
}
