package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/cache"
	"github.com/jonathan/portfolio/internal/client"
	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/db"
	"github.com/jonathan/portfolio/internal/intro"
	"github.com/jonathan/portfolio/internal/logging"
	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/notify"
	"github.com/jonathan/portfolio/internal/page"
	"github.com/jonathan/portfolio/internal/seed"
	"github.com/jonathan/portfolio/internal/server/middleware"
	"github.com/jonathan/portfolio/internal/server/ratelimit"
	"github.com/jonathan/portfolio/internal/types"
)

// ContentStore is the read side the API serves. *db.DB, *seed.Store and *cache.Store
// implement it. Getters return nil, nil for a missing record.
type ContentStore interface {
	GetPersonalInfo(ctx context.Context) (*types.PersonalInfo, error)
	ListProjects(ctx context.Context, category string) ([]types.Project, error)
	GetProject(ctx context.Context, id int) (*types.Project, error)
	ListSkills(ctx context.Context) ([]types.Skill, error)
	ListCertificates(ctx context.Context) ([]types.Certificate, error)
	GetCertificate(ctx context.Context, id int) (*types.Certificate, error)
}

// MessageStore persists contact submissions.
type MessageStore interface {
	SaveContactMessage(ctx context.Context, id uuid.UUID, receivedAt time.Time, req types.ContactRequest) error
}

// MessageLister reads back stored contact submissions for the admin inbox.
type MessageLister interface {
	ListContactMessages(ctx context.Context, limit int) ([]db.ContactMessage, error)
}

// CacheInvalidator drops cached content.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, resource string) error
	InvalidateAll(ctx context.Context) error
}

// Deps are the collaborators of a Server. Only Content is required.
type Deps struct {
	Content  ContentStore
	Messages MessageStore
	// Notifier defaults to a logging sender.
	Notifier notify.Sender
	Cache    CacheInvalidator
	// Auth enables POST /auth/login and the admin routes.
	Auth           *AuthHandler
	JWT            *JWTService
	RateLimiter    *ratelimit.Limiter
	AllowedOrigins []string
	// Page serves GET /. Nil leaves the route unregistered.
	Page     http.Handler
	Timeline intro.Timeline
	Logger   *zap.Logger
	Now      func() time.Time
	// Ping reports backend readiness on GET /health. Nil is always ready.
	Ping func(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
	closers         []func()

	content        ContentStore
	messages       MessageStore
	notifier       notify.Sender
	cache          CacheInvalidator
	auth           *AuthHandler
	jwt            *JWTService
	rateLimiter    *ratelimit.Limiter
	allowedOrigins []string
	page           http.Handler
	timeline       intro.Timeline
	validator      *validator.Validate
	now            func() time.Time
	ping           func(ctx context.Context) error
}

// NewWithDeps builds a server around already constructed collaborators.
func NewWithDeps(addr string, d Deps) *Server {
	logger := logging.OrNop(d.Logger)
	s := &Server{
		shutdownTimeout: 10 * time.Second,
		logger:          logger,
		content:         d.Content,
		messages:        d.Messages,
		notifier:        d.Notifier,
		cache:           d.Cache,
		auth:            d.Auth,
		jwt:             d.JWT,
		rateLimiter:     d.RateLimiter,
		allowedOrigins:  d.AllowedOrigins,
		page:            d.Page,
		timeline:        d.Timeline,
		validator:       newValidator(),
		now:             d.Now,
		ping:            d.Ping,
	}
	if s.notifier == nil {
		s.notifier = &notify.LogSender{Logger: logger}
	}
	if len(s.timeline.Steps) == 0 {
		s.timeline = intro.DefaultTimeline()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.allowedOrigins) == 0 {
		s.allowedOrigins = []string{"*"}
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// New wires a server from configuration: PostgreSQL when a database URL is set
// (the embedded seed dataset otherwise), an optional Redis cache, SES or logging
// delivery for contact messages, and admin auth when an admin hash is configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	logger = logging.OrNop(logger)
	d := Deps{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	}
	var closers []func()
	fail := func(err error) (*Server, error) {
		for _, c := range slices.Backward(closers) {
			c()
		}
		return nil, err
	}

	var content ContentStore
	if cfg.Database.URL != "" {
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return fail(fmt.Errorf("failed to connect to database: %w", err))
		}
		closers = append(closers, database.Close)
		content = database
		d.Messages = database
		d.Ping = database.Ping
		logger.Info("serving content from database")
	} else {
		store, err := seed.NewStore(nil)
		if err != nil {
			return fail(fmt.Errorf("failed to load seed dataset: %w", err))
		}
		content = store
		logger.Info("serving embedded seed dataset")
	}

	if cfg.Redis.URL != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return fail(fmt.Errorf("failed to connect to redis: %w", err))
		}
		closers = append(closers, func() { _ = rdb.Close() })
		c := cache.New(rdb, cache.WithTTL(cfg.Redis.TTL), cache.WithPrefix(cfg.Redis.Prefix), cache.WithLogger(logger))
		content = c.Wrap(content)
		d.Cache = c
	}
	d.Content = content

	if cfg.Contact.SESEnabled() {
		sender, err := notify.NewSESSenderFromEnv(ctx, cfg.Contact.SESRegion, cfg.Contact.From, cfg.Contact.To)
		if err != nil {
			return fail(fmt.Errorf("failed to configure SES: %w", err))
		}
		d.Notifier = sender
	}

	if cfg.Admin.Enabled() {
		passwordConfig, err := config.NewPasswordConfig()
		if err != nil {
			return fail(fmt.Errorf("failed to create password config: %w", err))
		}
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return fail(fmt.Errorf("failed to create JWT config: %w", err))
		}
		d.JWT = NewJWTService(jwtConfig)
		d.Auth = NewAuthHandler(cfg.Admin, passwordConfig, d.JWT, logger)
	} else {
		logger.Info("admin login disabled: no admin password hash configured")
	}

	d.RateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig(cfg.Server.RateLimit))
	closers = append(closers, d.RateLimiter.Stop)

	pageSources := page.StoreSources(content)
	if cfg.Loader.BaseURL != "" {
		c, err := client.New(cfg.Loader.BaseURL, &client.Options{Timeout: cfg.Loader.Timeout, UserAgent: client.DefaultUserAgent})
		if err != nil {
			return fail(fmt.Errorf("invalid loader base url: %w", err))
		}
		pageSources = page.ClientSources(c)
	}
	d.Page = page.Handler(pageSources, page.Options{
		ReducedMotion: cfg.Intro.ReducedMotion,
		Timeout:       cfg.Loader.Timeout,
		Logger:        logger,
	})

	s := NewWithDeps(cfg.Server.Addr(), d)
	s.shutdownTimeout = cfg.Server.ShutdownTimeout
	s.closers = closers
	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /personal-info", s.handlePersonalInfo)
	mux.HandleFunc("GET /projects", s.handleListProjects)
	mux.HandleFunc("GET /projects/{id}", s.handleGetProject)
	mux.HandleFunc("GET /skills", s.handleListSkills)
	mux.HandleFunc("GET /skills/categories", s.handleSkillCategories)
	mux.HandleFunc("GET /certificates", s.handleListCertificates)
	mux.HandleFunc("GET /certificates/{id}", s.handleGetCertificate)
	mux.HandleFunc("GET /intro/timeline", s.handleIntroTimeline)

	mux.HandleFunc("POST /contact", s.handleContact)

	if s.auth != nil {
		mux.HandleFunc("POST /auth/login", s.auth.Login)
	} else {
		mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, s.logger, &ErrAuthDisabled{})
		})
	}
	if s.jwt != nil {
		requireAuth := middleware.RequireBearer(s.jwt.AsTokenValidator())
		mux.Handle("POST /admin/cache/invalidate", requireAuth(http.HandlerFunc(s.handleInvalidateCache)))
		mux.Handle("GET /admin/messages", requireAuth(http.HandlerFunc(s.handleListMessages)))
	}

	mux.Handle("GET /metrics", promhttp.Handler())
	if s.page != nil {
		mux.Handle("GET /{$}", s.page)
	}

	var h http.Handler = s.withCORS(mux)
	h = s.withMetrics(h)
	h = s.withLogging(h)
	if s.rateLimiter != nil {
		h = s.withRateLimit(h)
	}
	return h
}

// Start serves until ctx is cancelled, then shuts down gracefully and releases
// the database, cache and rate limiter.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.close()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.close()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) close() {
	for _, c := range slices.Backward(s.closers) {
		c()
	}
	s.closers = nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowOrigin(origin string) string {
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if origin != "" && allowed == origin {
			return origin
		}
	}
	return ""
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// withMetrics records request counts and latency by route pattern.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(r.Method, route, rec.code(), s.now().Sub(start))
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.code()),
			zap.Duration("duration", s.now().Sub(start)))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests envelope.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds())
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	writeJSON(w, s.logger, http.StatusTooManyRequests, types.Fail("Rate limit exceeded. Please try again later."))
}
