// Package server wires the widget showcase page, the client library and the
// operational endpoints into one HTTP server.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/livefir/widgetdemo"
	"github.com/livefir/widgetdemo/internal/config"
	"github.com/livefir/widgetdemo/internal/metrics"
	"github.com/livefir/widgetdemo/internal/panel"
)

const (
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"

	shutdownTimeout = 5 * time.Second
	cleanupInterval = 10 * time.Minute
)

// Server is the widget showcase HTTP server.
type Server struct {
	Config    *config.Config
	Collector *metrics.Collector
	Sessions  *widgetdemo.MemorySessionStore

	handler http.Handler
}

// New builds the page from cfg and registers every route.
func New(cfg *config.Config, opts panel.Options) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	opts.Config = cfg

	sessions := widgetdemo.NewMemorySessionStoreTTL(cfg.SessionTTL)
	opts.TemplateOptions = append(opts.TemplateOptions, widgetdemo.WithSessionStore(sessions))

	tmpl, stores, err := panel.NewPage(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build page: %w", err)
	}

	s := &Server{
		Config:    cfg,
		Collector: metrics.NewCollector(),
		Sessions:  sessions,
	}

	burst := int(cfg.ActionsPerSecond)
	if burst < 1 {
		burst = 1
	}
	page := widgetdemo.MountStores(tmpl, stores,
		widgetdemo.WithActionRate(cfg.ActionsPerSecond, burst),
		widgetdemo.WithMaxActionBytes(maxActionBytes(cfg.Upload.MaxBytes)),
		widgetdemo.WithCollector(s.Collector),
		widgetdemo.WithVerbose(cfg.DevMode),
	)

	mux := http.NewServeMux()
	mux.Handle("/", page)
	mux.HandleFunc(widgetdemo.ClientLibraryPath, widgetdemo.ServeClientLibrary)
	mux.HandleFunc(HealthPath, s.health)
	mux.HandleFunc(MetricsPath, s.metrics)
	s.handler = mux
	return s, nil
}

// maxActionBytes leaves room for the base64 expansion of an upload and the
// JSON around it.
func maxActionBytes(upload int64) int64 {
	return upload/3*4 + 64<<10
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Collector.Snapshot()); err != nil {
		log.Printf("Failed to encode metrics: %v", err)
	}
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
// Idle sessions are swept while it runs.
func (s *Server) Run(ctx context.Context) error {
	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go s.Sessions.RunCleanup(cleanupCtx, cleanupInterval)

	srv := &http.Server{
		Addr:              s.Config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Widget showcase listening on %s", s.Config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
