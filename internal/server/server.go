// Package server exposes every dashboard view as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr     string
	DataPath string
	TopN     int
	Logger   *slog.Logger
}

// Status is served at /v1/status.
type Status struct {
	StartedAt time.Time `json:"started_at"`
	DataPath  string    `json:"data_path"`
	Rows      int       `json:"rows"`
	Countries int       `json:"countries"`
	FirstYear int       `json:"first_year"`
	LastYear  int       `json:"last_year"`
}

// PageInfo describes one dashboard page and the views it shows.
type PageInfo struct {
	ID           pipeline.Page   `json:"id"`
	Title        string          `json:"title"`
	Views        []pipeline.View `json:"views"`
	NeedsCountry bool            `json:"needs_country"`
}

// PageReport bundles every view of a page.
type PageReport struct {
	Page    pipeline.Page     `json:"page"`
	Title   string            `json:"title"`
	Country string            `json:"country,omitempty"`
	Reports []pipeline.Report `json:"reports"`
}

// Service serves views over an immutable record set. Handlers share the
// slice across goroutines without locking.
type Service struct {
	cfg       Config
	log       *slog.Logger
	records   []model.Record
	countries []string
	overview  model.DatasetOverview
	startedAt time.Time
}

// New returns a service over records.
func New(cfg Config, records []model.Record) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8050"
	}
	if cfg.TopN == 0 {
		cfg.TopN = pipeline.DefaultTopN
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		log:       log,
		records:   records,
		countries: pipeline.Countries(records),
		overview:  pipeline.Overview(records),
		startedAt: time.Now(),
	}
}

// Handler returns the routed, logged HTTP handler.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/pages", s.handlePages)
	mux.HandleFunc("GET /v1/pages/{page}", s.handlePage)
	mux.HandleFunc("GET /v1/countries", s.handleCountries)
	mux.HandleFunc("GET /v1/views", s.handleViews)
	mux.HandleFunc("GET /v1/views/{view}", s.handleView)

	return withLogging(s.log, mux)
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", "addr", s.cfg.Addr, "rows", len(s.records))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, s.log, http.StatusOK, Status{
		StartedAt: s.startedAt,
		DataPath:  s.cfg.DataPath,
		Rows:      s.overview.Rows,
		Countries: s.overview.Countries,
		FirstYear: s.overview.FirstYear,
		LastYear:  s.overview.LastYear,
	})
}

func (s *Service) handlePages(w http.ResponseWriter, _ *http.Request) {
	pages := make([]PageInfo, 0, len(pipeline.Pages))
	for _, p := range pipeline.Pages {
		pages = append(pages, pageInfo(p))
	}
	jsonResponse(w, s.log, http.StatusOK, pages)
}

func pageInfo(p pipeline.Page) PageInfo {
	info := PageInfo{ID: p, Title: p.Title(), Views: p.Views()}
	for _, v := range info.Views {
		if v.NeedsCountry() {
			info.NeedsCountry = true
		}
	}
	return info
}

func (s *Service) handlePage(w http.ResponseWriter, r *http.Request) {
	id := pipeline.Page(strings.ToLower(r.PathValue("page")))
	views := id.Views()
	if views == nil {
		errorResponse(w, r, s.log, http.StatusNotFound, fmt.Sprintf("unknown page %q", r.PathValue("page")))
		return
	}

	topN, err := s.topN(r)
	if err != nil {
		errorResponse(w, r, s.log, http.StatusBadRequest, err.Error())
		return
	}

	country := strings.TrimSpace(r.URL.Query().Get("country"))
	out := PageReport{Page: id, Title: id.Title(), Country: country}
	for _, v := range views {
		rep, err := pipeline.Build(s.records, pipeline.Request{View: v, Country: country, TopN: topN})
		if err != nil {
			s.writeBuildError(w, r, err)
			return
		}
		out.Reports = append(out.Reports, rep)
	}
	jsonResponse(w, s.log, http.StatusOK, out)
}

func (s *Service) handleCountries(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, s.log, http.StatusOK, s.countries)
}

func (s *Service) handleViews(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, s.log, http.StatusOK, pipeline.AllViews)
}

func (s *Service) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := pipeline.ParseView(r.PathValue("view"))
	if err != nil {
		errorResponse(w, r, s.log, http.StatusNotFound, err.Error())
		return
	}

	topN, err := s.topN(r)
	if err != nil {
		errorResponse(w, r, s.log, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := pipeline.Build(s.records, pipeline.Request{
		View:    view,
		Country: strings.TrimSpace(r.URL.Query().Get("country")),
		TopN:    topN,
	})
	if err != nil {
		s.writeBuildError(w, r, err)
		return
	}
	jsonResponse(w, s.log, http.StatusOK, rep)
}

func (s *Service) topN(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return s.cfg.TopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("n must be a positive integer, got %q", raw)
	}
	return n, nil
}

func (s *Service) writeBuildError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pipeline.ErrCountryRequired):
		errorResponse(w, r, s.log, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrUnknownView):
		errorResponse(w, r, s.log, http.StatusNotFound, err.Error())
	default:
		s.log.Error("building view failed", "error", err, "id", RequestID(r.Context()))
		errorResponse(w, r, s.log, http.StatusInternalServerError, "failed to build view")
	}
}
