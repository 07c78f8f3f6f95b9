package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"spacex-dashboard/internal/charts"
	"spacex-dashboard/internal/launches"
	"spacex-dashboard/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	pieTitle     = "Launch Success Counts"
	scatterTitle = "Scatter Plot for Launch Success Counts"
)

// RegisterRoutes sets up the router with all endpoints.
func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(s.limiter.Middleware)

	r.Get("/", s.DashboardHandler)
	r.Get("/health", s.healthHandler)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sites", s.SitesHandler)
		r.Get("/bounds", s.BoundsHandler)
		r.Get("/success", s.SuccessCountsHandler)
		r.Get("/payload", s.PayloadHandler)
	})

	r.Get("/charts/success.svg", s.SuccessChartHandler)
	r.Get("/charts/payload.svg", s.PayloadChartHandler)

	return r
}

// healthHandler provides health information.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "up",
		"source":  s.cfg.DataSource,
		"records": s.table.Len(),
	}
	if s.db != nil {
		dbHealth := s.db.Health()
		resp["database"] = dbHealth
		if dbHealth["status"] != "up" {
			resp["status"] = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type siteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// siteOptions lists every site followed by the all-sites entry.
func (s *Server) siteOptions() []siteOption {
	sites := s.table.Sites()
	opts := make([]siteOption, 0, len(sites)+1)
	for _, site := range sites {
		opts = append(opts, siteOption{Label: site, Value: site})
	}
	return append(opts, siteOption{Label: launches.AllSites, Value: launches.AllSites})
}

// SitesHandler returns the launch site selector options.
func (s *Server) SitesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.siteOptions())
}

// BoundsHandler returns the payload mass bounds of the table.
func (s *Server) BoundsHandler(w http.ResponseWriter, r *http.Request) {
	min, max := s.table.PayloadBounds()
	writeJSON(w, http.StatusOK, map[string]float64{"min": min, "max": max})
}

type successResponse struct {
	Site         string                `json:"site"`
	Total        int                   `json:"total"`
	Distribution launches.Distribution `json:"distribution"`
}

// SuccessCountsHandler returns the outcome distribution for the selected site.
func (s *Server) SuccessCountsHandler(w http.ResponseWriter, r *http.Request) {
	site := siteParam(r)
	d := s.table.SuccessCounts(site)
	writeJSON(w, http.StatusOK, successResponse{Site: site, Total: d.Total(), Distribution: d})
}

type payloadResponse struct {
	Site     string          `json:"site"`
	Range    launches.Range  `json:"range"`
	Count    int             `json:"count"`
	Launches []models.Launch `json:"launches"`
}

// PayloadHandler returns the launches within the selected payload range.
func (s *Server) PayloadHandler(w http.ResponseWriter, r *http.Request) {
	site := siteParam(r)
	rng, err := s.rangeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs := s.table.FilterByPayload(site, rng)
	writeJSON(w, http.StatusOK, payloadResponse{Site: site, Range: rng, Count: len(recs), Launches: recs})
}

// SuccessChartHandler renders the success pie chart for the selected site.
func (s *Server) SuccessChartHandler(w http.ResponseWriter, r *http.Request) {
	site := siteParam(r)
	title := pieTitle
	if site != launches.AllSites {
		title = fmt.Sprintf("%s for site %s", pieTitle, site)
	}
	d := s.table.SuccessCounts(site)

	s.renderChart(w, "success", func(out io.Writer) error {
		return charts.SuccessPie(out, title, d)
	})
}

// PayloadChartHandler renders the payload/outcome scatter chart.
func (s *Server) PayloadChartHandler(w http.ResponseWriter, r *http.Request) {
	site := siteParam(r)
	rng, err := s.rangeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	groups := launches.GroupByBooster(s.table.FilterByPayload(site, rng))

	s.renderChart(w, "payload", func(out io.Writer) error {
		return charts.PayloadScatter(out, scatterTitle, rng, groups)
	})
}

func (s *Server) renderChart(w http.ResponseWriter, name string, render func(io.Writer) error) {
	var buf bytes.Buffer
	start := time.Now()
	err := render(&buf)
	s.metrics.renders.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if errors.Is(err, charts.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("Error rendering %s chart: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func siteParam(r *http.Request) string {
	if site := r.URL.Query().Get("site"); site != "" {
		return site
	}
	return launches.AllSites
}

// rangeParam reads low and high from the query string. Missing bounds
// default to the table's payload bounds.
func (s *Server) rangeParam(r *http.Request) (launches.Range, error) {
	min, max := s.table.PayloadBounds()
	rng := launches.Range{Low: min, High: max}

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"low", &rng.Low}, {"high", &rng.High}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return launches.Range{}, fmt.Errorf("%w: %s must be a number", launches.ErrInvalidRange, p.name)
		}
		*p.dst = f
	}

	if err := rng.Validate(); err != nil {
		return launches.Range{}, err
	}
	return rng, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
