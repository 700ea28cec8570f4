// Package server exposes the latest analysis run over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hygiene-analyzer/models"
	"hygiene-analyzer/storage"
	"hygiene-analyzer/utils"
)

// Refresher produces a new run on demand.
type Refresher interface {
	Run(ctx context.Context) (*models.Run, error)
}

// RunHistory reads previously stored runs.
type RunHistory interface {
	ListRuns(ctx context.Context, limit int) ([]storage.RunSummary, error)
	LoadInsights(ctx context.Context, runID string) ([]models.AuthorityInsight, error)
}

// ErrRefreshInProgress is returned when a refresh is requested while
// another one is running.
var ErrRefreshInProgress = errors.New("refresh already in progress")

var (
	errNoReport        = errors.New("no report available yet")
	errRefreshDisabled = errors.New("refresh is not configured")
	errNoHistory       = errors.New("run history is not configured")
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// Server holds the latest run and serves read-only views of it.
type Server struct {
	mu        sync.RWMutex
	run       *models.Run
	refreshMu sync.Mutex
	refresher Refresher
	history   RunHistory
	registry  prometheus.Gatherer
	logger    *utils.Logger
	router    chi.Router
}

// New builds the router. registry may be nil to disable /metrics.
func New(refresher Refresher, registry prometheus.Gatherer, logger *utils.Logger) *Server {
	s := &Server{refresher: refresher, registry: registry, logger: logger}
	s.router = s.routes()
	return s
}

// SetRun replaces the served run.
func (s *Server) SetRun(run *models.Run) {
	s.mu.Lock()
	s.run = run
	s.mu.Unlock()
}

// SetHistory enables the /api/runs routes. Call it before serving.
func (s *Server) SetHistory(h RunHistory) {
	s.history = h
}

// Refresh produces a new run and serves it, waiting for any refresh
// already in progress.
func (s *Server) Refresh(ctx context.Context) (*models.Run, error) {
	if s.refresher == nil {
		return nil, errRefreshDisabled
	}
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Server) refreshLocked(ctx context.Context) (*models.Run, error) {
	run, err := s.refresher.Run(ctx)
	if run != nil {
		s.SetRun(run)
	}
	return run, err
}

// Run returns the currently served run, or nil.
func (s *Server) Run() *models.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/refresh", s.refresh)
		r.Get("/runs", s.listRuns)
		r.Get("/runs/{id}/authorities", s.runAuthorities)

		r.Route("/report", func(r chi.Router) {
			r.Use(s.requireRun)
			r.Get("/", s.fullReport)
			r.Get("/summary", s.summary)
			r.Get("/ratings", s.ratings)
			r.Get("/business-types", s.businessTypes)
			r.Get("/top-rated", s.topRated)
			r.Get("/authorities", s.authorities)
			r.Get("/authorities.csv", s.authoritiesCSV)
			r.Get("/authorities/{name}", s.authority)
			r.Get("/most-improved", s.mostImproved)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("[server] %s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *Server) requireRun(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Run() == nil {
			writeError(w, r, http.StatusServiceUnavailable, errNoReport)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok"}
	if run := s.Run(); run != nil {
		resp["runId"] = run.ID
		resp["generatedAt"] = run.GeneratedAt
	}
	render.JSON(w, r, resp)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	if s.refresher == nil {
		writeError(w, r, http.StatusNotImplemented, errRefreshDisabled)
		return
	}
	if !s.refreshMu.TryLock() {
		writeError(w, r, http.StatusConflict, ErrRefreshInProgress)
		return
	}
	defer s.refreshMu.Unlock()

	run, err := s.refreshLocked(r.Context())
	if err != nil {
		s.logger.Error("[server] Refresh failed: %v", err)
		if run == nil {
			writeError(w, r, http.StatusBadGateway, err)
			return
		}
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"runId":           run.ID,
		"generatedAt":     run.GeneratedAt,
		"totalBusinesses": run.Report.TotalBusinesses,
	})
}

type runView struct {
	ID                    string         `json:"id"`
	GeneratedAt           time.Time      `json:"generatedAt"`
	Sources               []string       `json:"sources"`
	TotalBusinesses       int            `json:"totalBusinesses"`
	AverageRating         models.Average `json:"averageRating"`
	MostImprovedAuthority interface{}    `json:"mostImprovedAuthority"`
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, r, http.StatusNotImplemented, errNoHistory)
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	runs, err := s.history.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("[server] List runs failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	views := make([]runView, 0, len(runs))
	for _, rs := range runs {
		views = append(views, runView{
			ID:              rs.ID,
			GeneratedAt:     rs.GeneratedAt,
			Sources:         rs.Sources,
			TotalBusinesses: rs.TotalBusinesses,
			AverageRating:   rs.AverageRating,
			MostImprovedAuthority: improved(models.ImprovedAuthority{
				Name:                    rs.MostImproved,
				IncreaseInFiveStarCount: rs.MostImprovedIncrease,
			}),
		})
	}
	render.JSON(w, r, views)
}

func (s *Server) runAuthorities(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, r, http.StatusNotImplemented, errNoHistory)
		return
	}
	id := chi.URLParam(r, "id")
	insights, err := s.history.LoadInsights(r.Context(), id)
	if err != nil {
		s.logger.Error("[server] Load insights for %s failed: %v", id, err)
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if len(insights) == 0 {
		writeError(w, r, http.StatusNotFound, errors.New("unknown run: "+id))
		return
	}
	render.JSON(w, r, insights)
}

func (s *Server) fullReport(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Run())
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	run := s.Run()
	render.JSON(w, r, map[string]interface{}{
		"runId":                 run.ID,
		"generatedAt":           run.GeneratedAt,
		"totalBusinesses":       run.Report.TotalBusinesses,
		"averageRating":         run.Report.AverageRating,
		"authorities":           len(run.Report.AuthorityInsights),
		"mostImprovedAuthority": improved(run.Report.MostImprovedAuthority),
	})
}

func (s *Server) ratings(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Run().Report.RatingsDistribution)
}

func (s *Server) businessTypes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Run().Report.TopBusinessTypes)
}

func (s *Server) topRated(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Run().Report.TopRatedBusinesses)
}

func (s *Server) authorities(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Run().Report.AuthorityInsights)
}

func (s *Server) authority(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// chi matches on RawPath when it is set, leaving the parameter escaped.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		name = unescaped
	}
	in, ok := s.Run().Report.Insight(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, errors.New("unknown authority: "+name))
		return
	}
	render.JSON(w, r, in)
}

func (s *Server) authoritiesCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+storage.FormatCSV.FileName()+`"`)
	if err := storage.WriteAuthorityCSV(w, s.Run().Report); err != nil {
		s.logger.Error("[server] CSV export failed: %v", err)
	}
}

func (s *Server) mostImproved(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, improved(s.Run().Report.MostImprovedAuthority))
}

// improved maps the "no authorities" sentinel to null.
func improved(a models.ImprovedAuthority) interface{} {
	if !a.HasData() {
		return nil
	}
	return a
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
