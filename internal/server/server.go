// Package server provides the HTTP REST API behind the career recommender:
// skill-based recommendations, growth guides, accounts, and saved history.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jonathan/career-recommender/internal/catalog"
	"github.com/jonathan/career-recommender/internal/config"
	"github.com/jonathan/career-recommender/internal/db"
	"github.com/jonathan/career-recommender/internal/history"
	"github.com/jonathan/career-recommender/internal/llm"
	"github.com/jonathan/career-recommender/internal/server/middleware"
	"github.com/jonathan/career-recommender/internal/server/ratelimit"
	"github.com/jonathan/career-recommender/internal/types"
	"golang.org/x/sync/errgroup"
)

// Recommender maps input skills to career recommendations.
type Recommender interface {
	Recommend(skills []string) []types.CareerRecommendation
}

// InsightEnricher fills in written insights for recommendations.
type InsightEnricher interface {
	Enrich(ctx context.Context, skills []string, recs []types.CareerRecommendation) ([]types.CareerRecommendation, error)
}

// Deps are the collaborators a Server is built from. Cache and Insights
// are optional.
type Deps struct {
	Users     UserStore
	History   history.Store
	Catalog   Recommender
	Cache     ResponseCache
	Insights  InsightEnricher
	RateLimit *ratelimit.Config
	JWT       *config.JWTConfig
	Password  *config.PasswordConfig
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	catalog     Recommender
	history     history.Store
	cache       ResponseCache
	insights    InsightEnricher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	closers     []func()
	now         func() time.Time

	insightTimeout time.Duration
}

// New connects the backing services named in cfg and builds a server.
// Without DATABASE_URL users and history live in memory. A Redis or Gemini
// setup failure only disables that feature.
func New(ctx context.Context, cfg *config.ServerConfig) (*Server, error) {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	deps := Deps{
		Catalog:   catalog.Default(),
		RateLimit: ratelimit.LoadConfig(),
		JWT:       jwtConfig,
		Password:  passwordConfig,
	}
	var closers []func()

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		deps.Users = database
		deps.History = database
		closers = append(closers, database.Close)
	} else {
		log.Printf("[server] DATABASE_URL not set, keeping users and history in memory")
		deps.Users = NewMemoryUsers()
		deps.History = history.NewMemoryStore()
	}

	if cfg.RedisURL != "" {
		cache, err := NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Printf("[server] response cache disabled: %v", err)
		} else {
			deps.Cache = cache
		}
	}

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("[server] insight enrichment disabled: %v", err)
		} else {
			deps.Insights = llm.NewInsightWriter(client)
			closers = append(closers, func() { _ = client.Close() })
		}
	}

	s := NewWithDeps(deps)
	s.closers = append(s.closers, closers...)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// NewWithDeps builds a server around already constructed collaborators.
func NewWithDeps(deps Deps) *Server {
	s := &Server{
		catalog:        deps.Catalog,
		history:        deps.History,
		cache:          deps.Cache,
		insights:       deps.Insights,
		rateLimiter:    ratelimit.NewLimiter(deps.RateLimit),
		jwtService:     NewJWTService(deps.JWT),
		now:            time.Now,
		insightTimeout: 20 * time.Second,
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.history == nil {
		s.history = history.NewMemoryStore()
	}
	if deps.Cache != nil {
		s.closers = append(s.closers, func() { _ = deps.Cache.Close() })
	}
	s.authHandler = NewAuthHandler(NewUserService(deps.Users, deps.Password), s.jwtService)

	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /recommend-careers", s.handleRecommend)
	mux.HandleFunc("GET /growth-guides", s.handleGrowthGuides)

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("GET /me", requireAuth(http.HandlerFunc(s.authHandler.Me)))
	mux.Handle("PUT /me/password", requireAuth(http.HandlerFunc(s.authHandler.UpdatePassword)))

	mux.Handle("GET /me/history", requireAuth(http.HandlerFunc(s.handleListHistory)))
	mux.Handle("POST /me/history", requireAuth(http.HandlerFunc(s.handleAppendHistory)))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully and
// releases the backing services.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()
	if s.httpServer == nil {
		return fmt.Errorf("server has no listener; build it with New")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}

// Close stops the rate limiter and releases the backing services.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exhausted their bucket with a 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes the {"error": message} body clients parse.
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID keys rate limits by the remote IP. Forwarded headers are
// ignored since they are client controlled.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

func rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds())
		if secs < 1 {
			secs = 1
		}
		response["retry_after"] = secs
		w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
	}

	log.Printf("[rate-limit] exceeded: limit=%d reset=%s", info.Limit, info.ResetTime.Format(time.RFC3339))
	jsonResponse(w, http.StatusTooManyRequests, response)
}
