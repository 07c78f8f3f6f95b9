package server

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"math"
	"net/http"

	"spacex-dashboard/internal/launches"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// Payload slider geometry. The slider never shrinks below 0-10000 kg and grows
// in whole steps when the table holds heavier payloads.
const (
	sliderMin  = 0
	sliderMax  = 10000
	sliderStep = 1000
)

type dashboardData struct {
	Title       string
	Sites       []siteOption
	DefaultSite string
	SliderMin   float64
	SliderMax   float64
	SliderStep  float64
	Low         float64
	High        float64
}

// DashboardHandler serves the single dashboard page.
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	min, max := s.table.PayloadBounds()
	data := dashboardData{
		Title:       "SpaceX Launch Records Dashboard",
		Sites:       s.siteOptions(),
		DefaultSite: launches.AllSites,
		SliderMin:   sliderMin,
		SliderMax:   math.Max(sliderMax, math.Ceil(max/sliderStep)*sliderStep),
		SliderStep:  sliderStep,
		Low:         min,
		High:        max,
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		log.Printf("Error rendering dashboard: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
