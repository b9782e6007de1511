// Package server serves the calculator tools over HTTP.
//
//	POST /tool        execute a tool call
//	GET  /schema      tool schema for agent registration
//	GET  /health      liveness check
//	GET  /metrics     Prometheus metrics
//	GET  /plot/lp.svg LP corner chart; query params c1, c2, y2 and x3
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/indmath/internal/config"
	"github.com/njchilds90/indmath/internal/logging"
	"github.com/njchilds90/indmath/lp"
	"github.com/njchilds90/indmath/lp/lpplot"
	"github.com/njchilds90/indmath/tool"
)

// Server is the HTTP front end.
type Server struct {
	log      logr.Logger
	cfg      config.Server
	tools    *tool.Handler
	defaults config.Tabs
	plot     lpplot.Options
	gatherer prometheus.Gatherer
	now      func() time.Time
}

// New returns a Server. Metrics are served from gatherer.
func New(log logr.Logger, cfg config.Server, tools *tool.Handler, defaults config.Tabs,
	plot lpplot.Options, gatherer prometheus.Gatherer) *Server {
	plot.Format = "svg"
	return &Server{
		log:      log.WithName("server"),
		cfg:      cfg,
		tools:    tools,
		defaults: defaults,
		plot:     plot,
		gatherer: gatherer,
		now:      time.Now,
	}
}

// Handler returns the routed handler with panic recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tool", s.handleTool)
	mux.HandleFunc("/schema", s.handleSchema)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/plot/lp.svg", s.handlePlot)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return s.recoverer(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening", "addr", s.cfg.Addr)
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

	s.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error(fmt.Errorf("%v", rec), "Recovered panic", "path", r.URL.Path, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req tool.Request
	if err := dec.Decode(&req); err != nil {
		s.log.V(logging.DEBUG).Info("Rejected tool request", "error", err.Error())
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return
	}

	writeJSON(w, http.StatusOK, s.tools.Handle(req))
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, tool.Spec())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	in := s.defaults.LP.Input()
	q := r.URL.Query()
	for name, dst := range map[string]*float64{"c1": &in.C1, "c2": &in.C2, "y2": &in.Y2, "x3": &in.X3} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid %s: %q", name, raw), http.StatusBadRequest)
			return
		}
		*dst = v
	}

	var buf bytes.Buffer
	if err := lpplot.Render(&buf, in, lp.Evaluate(in), s.plot); err != nil {
		s.log.Error(err, "Failed to render LP chart")
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = buf.WriteTo(w)
}
