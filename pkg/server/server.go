package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-priceform/pkg/client"
	"github.com/goliatone/go-priceform/pkg/controller"
	"github.com/goliatone/go-priceform/pkg/model"
	"github.com/goliatone/go-priceform/pkg/orchestrator"
)

// Logger is the logging surface the server needs. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// PageRenderer draws the form for a request. *orchestrator.Orchestrator
// satisfies it.
type PageRenderer interface {
	Render(ctx context.Context, form model.FormModel, req orchestrator.Request) ([]byte, error)
	ContentType(name string) (string, error)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger injects a logger shared with the per-session controllers.
func WithLogger(logger Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTheme sets the theme and variant used when a request names neither.
func WithTheme(name, variant string) Option {
	return func(s *Server) {
		s.themeName = name
		s.themeVariant = variant
	}
}

// WithAssets serves files under /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithControllerOptions are applied to every session controller.
func WithControllerOptions(options ...controller.Option) Option {
	return func(s *Server) {
		s.controllerOptions = append(s.controllerOptions, options...)
	}
}

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

// WithMaxSessions overrides DefaultMaxSessions.
func WithMaxSessions(limit int) Option {
	return func(s *Server) {
		s.maxSessions = limit
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// Server serves the prediction form over HTTP. Every browser session owns a
// Form Controller; the page is rendered server side and works without
// scripts, while the /api routes expose the same operations as JSON.
type Server struct {
	form              model.FormModel
	pages             PageRenderer
	predictor         client.Predictor
	logger            Logger
	themeName         string
	themeVariant      string
	assets            fs.FS
	controllerOptions []controller.Option
	sessionTTL        time.Duration
	maxSessions       int
	secureCookies     bool

	sessions *sessionStore
	router   chi.Router
}

var (
	ErrNoRenderer  = errors.New("server: page renderer is required")
	ErrNoPredictor = errors.New("server: predictor is required")
)

// New builds a Server for form.
func New(form model.FormModel, pages PageRenderer, predictor client.Predictor, options ...Option) (*Server, error) {
	if pages == nil {
		return nil, ErrNoRenderer
	}
	if predictor == nil {
		return nil, ErrNoPredictor
	}
	s := &Server{
		form:      form,
		pages:     pages,
		predictor: predictor,
		logger:    discardLogger{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	s.sessions = newSessionStore(s.sessionTTL, s.maxSessions, s.newController)
	s.router = s.routes()
	return s, nil
}

func (s *Server) newController() (*controller.Controller, error) {
	options := append([]controller.Option{controller.WithLogger(s.logger)}, s.controllerOptions...)
	return controller.New(s.predictor, options...)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Post("/", s.handleFormPost)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/fields/{name}", s.handleField)
		r.Post("/submit", s.handleSubmit)
	})

	if s.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	}
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close cancels the in-flight requests of every session and drops them.
func (s *Server) Close() {
	s.sessions.closeAll()
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
// Idle sessions are pruned in the background while it runs.
func (s *Server) Run(ctx context.Context, addr string) error {
	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go s.sessions.pruneEvery(pruneCtx, pruneInterval(s.sessions.ttl), s.logger)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func pruneInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval < time.Second {
		return time.Second
	}
	return interval
}
