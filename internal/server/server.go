// Package server exposes trapezoidal maps over HTTP.
//
// Maps are built from a JSON body, kept in memory under a random UUID and
// queried by point. Derived tables go through the pipeline's artifact cache,
// so several server instances sharing a Redis cache answer repeated exports
// without rebuilding them.
//
//	POST   /maps                  build a map, 201 {"id", "leaves", "nodes"}
//	GET    /maps/{id}/locate?x=&y= region and search path of a point
//	GET    /maps/{id}/adjacency    adjacency table as CSV
//	GET    /maps/{id}/regions      regions as JSON
//	DELETE /maps/{id}              forget a map and its cached table
//	GET    /healthz                liveness
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/trapmap/pkg/buildinfo"
	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
	tmio "github.com/matzehuels/trapmap/pkg/io"
	"github.com/matzehuels/trapmap/pkg/observability"
	"github.com/matzehuels/trapmap/pkg/pipeline"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// DefaultMaxBody bounds the size of a map request body.
const DefaultMaxBody = 8 << 20

// Options configures a Server.
type Options struct {
	// Budget bounds the time spent building one map. Zero disables the
	// limit. A request that runs out of budget fails with 408.
	Budget time.Duration

	// MaxBody bounds request bodies in bytes (default DefaultMaxBody).
	MaxBody int64

	Logger *log.Logger
}

// Server stores built maps and serves queries against them.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	router chi.Router

	mu   sync.RWMutex
	maps map[string]*entry
}

// entry is one stored map. A map is not safe for concurrent use, so every
// access holds mu.
type entry struct {
	mu   sync.Mutex
	m    *trapmap.Map
	hash string
}

// New creates a server that builds maps with runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	if opts.Logger == nil {
		opts.Logger = runner.Logger
	}

	s := &Server{
		runner: runner,
		opts:   opts,
		maps:   make(map[string]*entry),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Post("/maps", s.createMap)
	r.Get("/maps/{id}/locate", s.locate)
	r.Get("/maps/{id}/adjacency", s.adjacency)
	r.Get("/maps/{id}/regions", s.regions)
	r.Delete("/maps/{id}", s.deleteMap)
	s.router = r

	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.opts.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// Len returns the number of stored maps.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.maps)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "maps": s.Len(), "version": buildinfo.Version})
}

type createResponse struct {
	ID     string `json:"id"`
	Leaves int    `json:"leaves"`
	Nodes  int    `json:"nodes"`
}

func (s *Server) createMap(w http.ResponseWriter, r *http.Request) {
	in, err := tmio.ReadJSON(http.MaxBytesReader(w, r.Body, s.opts.MaxBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, completed, err := s.runner.Build(r.Context(), in, pipeline.Options{
		Budget: s.opts.Budget,
		Logger: s.opts.Logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !completed {
		s.writeError(w, r, errors.New(errors.ErrCodeTimeout, "budget of %s exhausted after %d of %d segments",
			s.opts.Budget, len(m.Segments()), len(in.Segments)))
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.maps[id] = &entry{m: m, hash: in.Hash()}
	s.mu.Unlock()

	s.opts.Logger.Info("map created", "id", id, "segments", len(in.Segments), "regions", m.LeafCount())
	w.Header().Set("Location", "/maps/"+id)
	writeJSON(w, http.StatusCreated, createResponse{ID: id, Leaves: m.LeafCount(), Nodes: m.NodeCount()})
}

type locateResponse struct {
	Point  geom.Point  `json:"point"`
	Region tmio.Region `json:"region"`
	Trace  []string    `json:"trace"`
}

func (s *Server) locate(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := queryPoint(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	steps := e.m.Trace(p)
	leaf, _ := e.m.Node(steps[len(steps)-1].Node)
	e.mu.Unlock()

	resp := locateResponse{Point: p, Region: tmio.NewRegion(leaf.Label, leaf.Region)}
	for _, st := range steps {
		resp.Trace = append(resp.Trace, st.Label)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) adjacency(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), e.m, e.hash, true, s.tableOptions())
	e.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[pipeline.FormatCSV])
}

func (s *Server) regions(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	regions := tmio.Regions(e.m)
	e.mu.Unlock()
	writeJSON(w, http.StatusOK, regions)
}

func (s *Server) deleteMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateMapID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	e, ok := s.maps[id]
	delete(s.maps, id)
	shared := ok && s.storedLocked(e.hash)
	s.mu.Unlock()

	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "map %s not found", id))
		return
	}
	if !shared {
		if err := s.runner.Evict(r.Context(), e.hash, s.tableOptions()); err != nil {
			s.opts.Logger.Warn("evict cached table", "id", id, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) lookup(r *http.Request) (*entry, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateMapID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	e, ok := s.maps[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "map %s not found", id)
	}
	return e, nil
}

// storedLocked reports whether a stored map was built from the input with
// the given hash. The caller holds s.mu.
func (s *Server) storedLocked(hash string) bool {
	for _, e := range s.maps {
		if e.hash == hash {
			return true
		}
	}
	return false
}

// tableOptions renders the adjacency table, the only artifact the server
// caches.
func (s *Server) tableOptions() pipeline.Options {
	return pipeline.Options{Formats: []string{pipeline.FormatCSV}, Logger: s.opts.Logger}
}

func queryPoint(r *http.Request) (geom.Point, error) {
	var coords [2]float64
	for i, name := range [2]string{"x", "y"} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return geom.Point{}, errors.New(errors.ErrCodeInvalidInput, "missing query parameter %s", name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return geom.Point{}, errors.New(errors.ErrCodeInvalidInput, "query parameter %s=%q is not a number", name, raw)
		}
		if err := errors.ValidateCoordinate(name, v); err != nil {
			return geom.Point{}, err
		}
		coords[i] = v
	}
	return geom.Pt(coords[0], coords[1]), nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.opts.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.opts.Logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: errors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// observe reports every request to the registered HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		hooks.OnResponse(r.Context(), r.Method, path, ww.Status(), time.Since(start))
		s.opts.Logger.Debug("request", "method", r.Method, "path", path, "status", ww.Status(), "took", time.Since(start))
	})
}
