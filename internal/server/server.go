// Package server provides the HTTP REST API for EZResume.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ezresume/internal/config"
	"github.com/jonathan/ezresume/internal/db"
	"github.com/jonathan/ezresume/internal/generate"
	"github.com/jonathan/ezresume/internal/server/middleware"
	"github.com/jonathan/ezresume/internal/server/ratelimit"
	"github.com/jonathan/ezresume/internal/types"
)

// Datastore is the full storage surface the handlers need; *db.DB
// satisfies it.
type Datastore interface {
	Store
	CreateResume(ctx context.Context, userID uuid.UUID, title string) (uuid.UUID, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]types.Resume, error)
	RenameResume(ctx context.Context, resumeID uuid.UUID, title string) error
	DeleteResume(ctx context.Context, resumeID uuid.UUID) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	store       Datastore
	sessions    *Sessions
	generator   *generate.Generator
	genClient   generate.Client
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// Config holds server configuration
type Config struct {
	Port         int
	DatabaseURL  string
	GeminiAPIKey string
	GeminiModel  string
	QuietWindow  time.Duration
	IdleTimeout  time.Duration
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:    database,
		store: database,
	}

	if cfg.QuietWindow <= 0 {
		cfg.QuietWindow = 3 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	s.sessions = NewSessions(database, cfg.QuietWindow, cfg.IdleTimeout)

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
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
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	// Generation is optional; without an API key the endpoint reports 503.
	if cfg.GeminiAPIKey != "" {
		genCfg := generate.DefaultConfig()
		if cfg.GeminiModel != "" {
			genCfg.Model = cfg.GeminiModel
		}
		client, err := generate.NewGeminiClient(context.Background(), genCfg, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create generation client: %w", err)
		}
		s.genClient = client
		s.generator = generate.NewGenerator(client)
	}

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router: public auth/health endpoints plus the
// JWT-gated application surface.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("GET /health", s.handleHealth)

	authed := http.NewServeMux()

	// Profile
	authed.HandleFunc("GET /profile", s.handleGetProfile)

	// Onboarding wizard
	authed.HandleFunc("GET /onboarding", s.handleGetOnboarding)
	authed.HandleFunc("PUT /onboarding/personal-info", s.handleUpdatePersonalInfo)
	authed.HandleFunc("POST /onboarding/experiences", s.handleAddExperience)
	authed.HandleFunc("PUT /onboarding/experiences/{id}", s.handleUpdateExperience)
	authed.HandleFunc("DELETE /onboarding/experiences/{id}", s.handleRemoveExperience)
	authed.HandleFunc("POST /onboarding/education", s.handleAddEducation)
	authed.HandleFunc("PUT /onboarding/education/{id}", s.handleUpdateEducation)
	authed.HandleFunc("DELETE /onboarding/education/{id}", s.handleRemoveEducation)
	authed.HandleFunc("POST /onboarding/skills", s.handleAddSkill)
	authed.HandleFunc("PUT /onboarding/skills/{id}", s.handleUpdateSkill)
	authed.HandleFunc("DELETE /onboarding/skills/{id}", s.handleRemoveSkill)
	authed.HandleFunc("POST /onboarding/projects", s.handleAddProject)
	authed.HandleFunc("PUT /onboarding/projects/{id}", s.handleUpdateProject)
	authed.HandleFunc("DELETE /onboarding/projects/{id}", s.handleRemoveProject)
	authed.HandleFunc("POST /onboarding/certifications", s.handleAddCertification)
	authed.HandleFunc("PUT /onboarding/certifications/{id}", s.handleUpdateCertification)
	authed.HandleFunc("DELETE /onboarding/certifications/{id}", s.handleRemoveCertification)
	authed.HandleFunc("POST /onboarding/next", s.handleNext)
	authed.HandleFunc("POST /onboarding/back", s.handleBack)
	authed.HandleFunc("POST /onboarding/skip", s.handleSkip)
	authed.HandleFunc("POST /onboarding/complete", s.handleComplete)
	authed.HandleFunc("POST /onboarding/save", s.handleSaveOnboarding)

	// Resumes
	authed.HandleFunc("POST /resumes", s.handleCreateResume)
	authed.HandleFunc("GET /resumes", s.handleListResumes)
	authed.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	authed.HandleFunc("PUT /resumes/{id}", s.handleRenameResume)
	authed.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)
	authed.HandleFunc("PUT /resumes/{id}/content", s.handleUpdateResumeContent)
	authed.HandleFunc("POST /resumes/{id}/save", s.handleSaveResume)

	// AI generation
	authed.HandleFunc("POST /generate", s.handleGenerate)

	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("/", requireAuth(authed))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Flush and drop live sessions before the pool goes away
	if s.sessions != nil {
		s.sessions.Stop()
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.genClient != nil {
		if err := s.genClient.Close(); err != nil {
			log.Printf("Error closing generation client: %v", err)
		}
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract client identifier (IP address)
		clientID := s.extractClientID(r)

		// Check rate limit
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		// Set rate limit headers for successful requests
		s.setRateLimitHeaders(w, info)
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

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
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

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
