package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mediadepot/internal/archive"
	"mediadepot/internal/config"
	"mediadepot/internal/depot"
	"mediadepot/internal/ingest"
	"mediadepot/internal/jobs"
	"mediadepot/internal/logging"
	"mediadepot/internal/media"
	"mediadepot/internal/media/search"
	"mediadepot/internal/session"
)

// Options wires the server to its collaborators.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Media    *media.Store
	Search   *search.Engine
	Sessions session.Store
	Queue    *ingest.Queue
	Jobs     *jobs.Registry
	Migrator *archive.Migrator
	Resolver *depot.Resolver
}

// Server is the HTTP front of the daemon.
type Server struct {
	bind     string
	adminKey string
	cfg      *config.Config
	logger   *slog.Logger
	media    *media.Store
	search   *search.Engine
	sessions session.Store
	queue    *ingest.Queue
	jobs     *jobs.Registry
	migrator *archive.Migrator
	resolver *depot.Resolver
	router   chi.Router
}

// New builds the server and its route table.
func New(opts Options) *Server {
	s := &Server{
		bind:     opts.Config.Paths.APIBind,
		adminKey: opts.Config.Auth.AdminKey,
		cfg:      opts.Config,
		logger:   logging.WithComponent(opts.Logger, "api"),
		media:    opts.Media,
		search:   opts.Search,
		sessions: opts.Sessions,
		queue:    opts.Queue,
		jobs:     opts.Jobs,
		migrator: opts.Migrator,
		resolver: opts.Resolver,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.withSession)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/topics", s.handleTopics)
		r.Get("/random", s.handleRandom)
		r.Get("/browse", s.handleBrowse)
		r.Get("/presence/{fileID}", s.handlePresence)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.handleCartGet)
			r.Get("/items", s.handleCartItems)
			r.Post("/add", s.handleCartAdd)
			r.Post("/clear", s.handleCartClear)
			r.Post("/update", s.handleCartUpdate)
			r.Post("/prune", s.handleCartPrune)
		})

		r.Route("/queue", func(r chi.Router) {
			r.Get("/", s.handleQueueList)
			r.Get("/stats", s.handleQueueStats)
			r.Get("/template", s.handleQueueTemplate)
			r.Get("/metadata/{index}", s.handleQueueMetadata)
			r.Post("/add", s.handleQueueAdd)
			r.Post("/skip", s.handleQueueSkip)
			r.Post("/retry", s.handleQueueRetry)
			r.Post("/remove", s.handleQueueRemove)
			r.Post("/submit", s.handleQueueSubmit)
			r.Post("/undo", s.handleQueueUndo)
			r.Post("/clear", s.handleQueueClear)
			r.Post("/clear-completed", s.handleQueueClearCompleted)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handleJobList)
			r.Get("/years", s.handleJobYears)
			r.Get("/projects", s.handleJobProjects)
			r.Get("/apps", s.handleJobApps)
			r.Get("/subdirs", s.handleJobSubdirs)
			r.Post("/validate", s.handleJobValidate)
			r.Post("/create", s.handleJobCreate)
			r.Post("/update", s.handleJobUpdate)
		})

		r.Post("/upload", s.handleUpload)
		r.Post("/archive/migrate", s.handleArchiveMigrate)
		r.Post("/copy", s.handleCopy)
		r.Get("/progress/{opID}", s.handleProgress)
	})
	return r
}

// Handler exposes the route table, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.bind,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", logging.String("bind", s.bind))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("api server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
