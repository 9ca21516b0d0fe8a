// Package server serves the manuscript submission wizard, the multipart
// submission endpoint and the editorial admin API.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/penerbit-id/naskah/internal/manuscripts"
	"github.com/penerbit-id/naskah/internal/storage"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
	"github.com/penerbit-id/naskah/logging"
)

// Options configures the HTTP server.
type Options struct {
	Listen         string
	DataDir        string
	TemplatesDir   string
	LogFile        string
	SiteName       string
	AdminToken     string
	SessionTTL     time.Duration
	MaxUploadBytes int64
	Service        *manuscripts.Service
	Logger         *logging.Logger
}

type server struct {
	siteName   string
	adminToken string
	logFile    string
	maxUpload  int64
	service    *manuscripts.Service
	orch       *wizard.Orchestrator
	sessions   *sessionStore
	staging    *storage.FileStore
	templates  map[string]*template.Template
	logger     *logging.Logger
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server
// fails. Expired wizard sessions are swept in the background.
func Run(ctx context.Context, opts Options) error {
	opts = applyDefaults(opts)
	srv, err := newServer(opts)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              opts.Listen,
		Handler:           logging.NewHTTPLogger(srv.logger, 0).Middleware(srv.routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.logger.Info("server", "serving naskah", map[string]any{
			"addr":    opts.Listen,
			"dataDir": opts.DataDir,
		})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		srv.sessions.run(gctx, opts.SessionTTL/4)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	srv.sessions.closeAll()
	if err != nil {
		return err
	}
	srv.logger.Info("server", "server stopped", nil)
	return ctx.Err()
}

func newServer(opts Options) (*server, error) {
	if opts.Service == nil {
		return nil, errors.New("server: manuscripts service is not configured")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("server", logging.INFO, io.Discard)
	}
	templates, err := loadTemplates(opts.TemplatesDir)
	if err != nil {
		return nil, err
	}
	staging, err := storage.NewFileStore(filepath.Join(opts.DataDir, "staging"), 0)
	if err != nil {
		return nil, err
	}
	return &server{
		siteName:   opts.SiteName,
		adminToken: opts.AdminToken,
		logFile:    opts.LogFile,
		maxUpload:  opts.MaxUploadBytes,
		service:    opts.Service,
		orch:       &wizard.Orchestrator{Submitter: opts.Service, Logger: logger},
		sessions:   newSessionStore(staging, opts.SessionTTL),
		staging:    staging,
		templates:  templates,
		logger:     logger,
	}, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, wizardPath, http.StatusSeeOther)
	})
	mux.HandleFunc("GET "+wizardPath, s.handleWizard)
	mux.HandleFunc("POST "+wizardPath, s.handleWizardAction)

	mux.HandleFunc("GET /api/penerbit", s.handlePublishers)
	mux.HandleFunc("POST /api/naskah", s.handleSubmitManuscript)

	mux.Handle("GET /api/admin/naskah", s.requireAdmin(s.handleAdminList))
	mux.Handle("GET /api/admin/naskah/{id}", s.requireAdmin(s.handleAdminGet))
	mux.Handle("GET /api/admin/naskah/{id}/file", s.requireAdmin(s.handleAdminFile))
	mux.Handle("POST /api/admin/naskah/{id}/review", s.requireAdmin(s.handleAdminReview))
	mux.Handle("POST /api/admin/naskah/{id}/advance", s.requireAdmin(s.handleAdminAdvance))
	mux.Handle("GET /api/admin/penerbit", s.requireAdmin(s.handleAdminPublishers))
	mux.Handle("POST /api/admin/penerbit", s.requireAdmin(s.handleAdminCreatePublisher))
	mux.Handle("POST /api/admin/penerbit/periksa", s.requireAdmin(s.handleAdminCheckPublishers))
	mux.Handle("GET /api/admin/statistik", s.requireAdmin(s.handleAdminStats))
	mux.Handle("GET /api/admin/log", s.requireAdmin(s.handleAdminLog))
	return mux
}
