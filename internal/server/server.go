// Package server wires the router, middleware and handlers together and owns
// the process lifecycle. All dependencies are assembled here; main stays
// minimal.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ravindu/helpdesk-web/internal/config"
	"github.com/ravindu/helpdesk-web/internal/handler"
	"github.com/ravindu/helpdesk-web/internal/helpdesk"
	"github.com/ravindu/helpdesk-web/internal/middleware"
	"github.com/ravindu/helpdesk-web/internal/render"
	"github.com/ravindu/helpdesk-web/internal/service"
	"github.com/ravindu/helpdesk-web/internal/session"
)

// Server is the HTTP front-end and the resources it owns. The session store
// is the only stateful dependency; it is closed on shutdown.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	store    *session.Store
	renderer *render.Renderer
}

// New assembles the full dependency chain: session store, cookie codec,
// API client, renderer, services, handlers, routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := session.NewStore(cfg.Session.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	codec, err := session.NewCodec(cfg.Session.Secret)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating cookie codec: %w", err)
	}

	renderer, err := render.New(cfg.Web.TemplateDir, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		store:    store,
		renderer: renderer,
	}
	s.setupRoutes(codec)
	return s, nil
}

func (s *Server) setupRoutes(codec *session.Codec) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Handler)
	s.router.Use(session.WithSession(s.store, codec))

	fileServer := http.FileServer(http.Dir(s.config.Web.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	client := helpdesk.New(s.config.API.BaseURL, s.config.API.Timeout, s.logger)
	questionService := service.NewQuestionService(client, s.logger)
	dashboardService := service.NewDashboardService(client, s.logger)

	questions := handler.NewQuestionHandler(questionService, s.renderer, s.logger)
	dashboard := handler.NewDashboardHandler(dashboardService, questionService, s.store, s.renderer, s.logger)
	auth := handler.NewAuthHandler(client, s.store, codec, s.config.Session.TTL, s.renderer, s.logger)

	s.router.NotFound(auth.HandleNotFound)

	// Public pages. The question list and detail render for everyone;
	// unauthenticated visitors get the sample set on the list.
	s.router.Get("/", auth.HandleHome)
	s.router.Get("/login", auth.HandleLoginForm)
	s.router.Post("/login", auth.HandleLogin)
	s.router.Post("/logout", auth.HandleLogout)
	s.router.Get("/questions", questions.HandleList)
	s.router.Get("/all-questions", questions.HandleList)
	s.router.Get("/questions/{id}", questions.HandleDetail)
	s.router.Post("/questions/{id}/answers", questions.HandleAnswer)

	// Pages behind the session guard.
	s.router.Group(func(r chi.Router) {
		r.Use(session.Require)
		r.Get("/ask-question", questions.HandleAskForm)
		r.Post("/ask-question", questions.HandleAskSubmit)
		r.Get("/dashboard", dashboard.HandleDashboard)
		r.Post("/dashboard/questions/{id}", dashboard.HandleEdit)
		r.Post("/dashboard/questions/{id}/delete", dashboard.HandleDeleteRequest)
		r.Post("/dashboard/questions/{id}/delete/confirm", dashboard.HandleDeleteConfirm)
		r.Get("/admin", auth.HandleAdmin)
	})
}

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until SIGINT or SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, close the session
// store.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if s.config.Web.DevReload {
		go func() {
			if err := s.renderer.Watch(ctx); err != nil {
				s.logger.Warn("template reload watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	// Expired sessions are swept in the background; Get already treats
	// expired rows as absent, the sweep just reclaims the space.
	go s.sweepSessions(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("api", s.config.API.BaseURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.DeleteExpired(ctx); err != nil {
				s.logger.Warn("session sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}
