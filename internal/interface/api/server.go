package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"flightdesk-service/internal/infrastructure/oauth"
	"flightdesk-service/internal/infrastructure/session"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
	"flightdesk-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
)

// OAuthProvider is the Discord login flow used by /auth
type OAuthProvider interface {
	GenerateAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*oauth.Identity, error)
}

// Config holds the dashboard server settings
type Config struct {
	Port         string
	DashboardDir string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	LogFile      string
	RoleRequired string
}

// Server is the authenticated REST dashboard
type Server struct {
	cfg      Config
	flights  *usecase.FlightService
	reporter *usecase.Reporter
	signer   *session.Signer
	oauth    OAuthProvider
	logs     *utils.LogParser
	gatherer prometheus.Gatherer
	logger   logger.Logger
	metrics  *metrics.Metrics

	httpServer *http.Server
}

// NewServer creates a new dashboard server. provider may be nil when OAuth is not configured.
func NewServer(
	cfg Config,
	flights *usecase.FlightService,
	reporter *usecase.Reporter,
	signer *session.Signer,
	provider OAuthProvider,
	logs *utils.LogParser,
	gatherer prometheus.Gatherer,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *Server {
	if cfg.DashboardDir == "" {
		cfg.DashboardDir = "."
	}
	return &Server{
		cfg:      cfg,
		flights:  flights,
		reporter: reporter,
		signer:   signer,
		oauth:    provider,
		logs:     logs,
		gatherer: gatherer,
		logger:   logger,
		metrics:  metrics,
	}
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.observe)
	r.Use(s.cors)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.handleLogin)
		r.Get("/callback", s.handleCallback)
		r.Get("/logout", s.handleLogout)
		r.Get("/me", s.handleMe)
	})

	r.Get("/", s.handleDashboardPage)
	r.Get("/dashboard.html", s.handleDashboardPage)
	r.Get("/login.html", s.handleLoginPage)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireRole)

		r.Get("/flights", s.handleListFlights)
		r.Post("/flights", s.handleCreateFlight)
		r.Route("/flights/{code}", func(r chi.Router) {
			r.Get("/", s.handleGetFlight)
			r.Patch("/", s.handleUpdateFlight)
			r.Delete("/", s.handleDeleteFlight)
			r.Post("/remind", s.handleRemind)
			r.Post("/start", s.handleStart)
			r.Post("/close", s.handleClose)
			r.Post("/refresh", s.handleRefresh)
		})
		r.Get("/stats", s.handleStats)
		r.Get("/logs", s.handleLogs)
		r.Post("/announce", s.handleAnnounce)
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting dashboard server", "port", s.cfg.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Dashboard server shutdown error", "error", err)
		return err
	}
	s.logger.Info("Dashboard server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
