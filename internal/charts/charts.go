// Package charts renders the dashboard's pie and scatter charts as SVG.
package charts

import (
	"errors"
	"fmt"
	"io"

	"spacex-dashboard/internal/launches"
	"spacex-dashboard/internal/models"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

const (
	pieSize       = 480
	scatterWidth  = 960
	scatterHeight = 420
	dotWidth      = 6
)

// SuccessPie draws one slice per non-zero entry of d.
func SuccessPie(w io.Writer, title string, d launches.Distribution) error {
	values := make([]chart.Value, 0, len(d))
	for _, s := range d {
		if s.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Label, s.Count),
			Value: float64(s.Count),
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  pieSize,
		Height: pieSize,
		Values: values,
	}
	if err := pie.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// PayloadScatter plots payload mass against outcome class with one dot
// series per booster version category. The x axis spans r.
func PayloadScatter(w io.Writer, title string, r launches.Range, groups []launches.BoosterGroup) error {
	series := make([]chart.Series, 0, len(groups))
	for i, g := range groups {
		if len(g.Launches) == 0 {
			continue
		}
		xs := make([]float64, len(g.Launches))
		ys := make([]float64, len(g.Launches))
		for j, l := range g.Launches {
			xs[j] = l.PayloadMassKg
			ys[j] = float64(l.Class)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    g.Category,
			Style:   dotStyle(chart.GetDefaultColor(i)),
			XValues: xs,
			YValues: ys,
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}

	lo, hi := r.Low, r.High
	if hi <= lo {
		lo, hi = lo-500, hi+500
	}

	graph := chart.Chart{
		Title:      title,
		Width:      scatterWidth,
		Height:     scatterHeight,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  launches.ColPayloadMass,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Name:  launches.ColClass,
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{
				{Value: float64(models.Failure), Label: models.Failure.String()},
				{Value: float64(models.Success), Label: models.Success.String()},
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}

func dotStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		StrokeColor: col,
		DotWidth:    dotWidth,
		DotColor:    col,
	}
}
