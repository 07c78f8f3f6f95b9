package launches

import (
	"errors"
	"fmt"
	"math"

	"spacex-dashboard/internal/models"
)

// AllSites is the site selector value that disables site filtering.
const AllSites = "All Sites"

var ErrInvalidRange = errors.New("invalid payload range")

// Range is a closed payload mass interval in kilograms.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

func (r Range) Validate() error {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) {
		return fmt.Errorf("%w: bounds must be numbers", ErrInvalidRange)
	}
	if math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidRange)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: low %v is greater than high %v", ErrInvalidRange, r.Low, r.High)
	}
	return nil
}

func (r Range) Contains(mass float64) bool {
	return r.Low <= mass && mass <= r.High
}

// Slice is one labelled count of a Distribution.
type Slice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Distribution is an ordered mapping from category label to count.
type Distribution []Slice

func (d Distribution) Total() int {
	n := 0
	for _, s := range d {
		n += s.Count
	}
	return n
}

// Count returns the count for label, or 0 if the label is absent.
func (d Distribution) Count(label string) int {
	for _, s := range d {
		if s.Label == label {
			return s.Count
		}
	}
	return 0
}

// SuccessCounts aggregates launch outcomes for the pie chart.
//
// For AllSites it returns one slice per site holding that site's number of
// successful launches. For a specific site it returns the number of
// launches per outcome class present at that site, largest first. A site
// without records yields an empty distribution.
func (t *Table) SuccessCounts(site string) Distribution {
	if site == AllSites {
		counts := make(map[string]int)
		for _, rec := range t.records {
			if rec.Class == models.Success {
				counts[rec.LaunchSite]++
			}
		}
		sites := t.Sites()
		out := make(Distribution, 0, len(sites))
		for _, s := range sites {
			out = append(out, Slice{Label: s, Count: counts[s]})
		}
		return out
	}

	var success, failure int
	for _, rec := range t.records {
		if rec.LaunchSite != site {
			continue
		}
		if rec.Class == models.Success {
			success++
		} else {
			failure++
		}
	}

	out := Distribution{}
	first, second := Slice{models.Success.String(), success}, Slice{models.Failure.String(), failure}
	if failure > success {
		first, second = second, first
	}
	for _, s := range []Slice{first, second} {
		if s.Count > 0 {
			out = append(out, s)
		}
	}
	return out
}

// FilterByPayload returns the records whose payload mass lies within r and,
// unless site is AllSites, that launched from site. Records are returned
// unmodified in table order.
func (t *Table) FilterByPayload(site string, r Range) []models.Launch {
	out := []models.Launch{}
	for _, rec := range t.records {
		if site != AllSites && rec.LaunchSite != site {
			continue
		}
		if !r.Contains(rec.PayloadMassKg) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// BoosterGroup is the set of records sharing one booster version category.
type BoosterGroup struct {
	Category string          `json:"category"`
	Launches []models.Launch `json:"launches"`
}

// GroupByBooster splits records by booster version category, keeping the
// categories in first-appearance order.
func GroupByBooster(records []models.Launch) []BoosterGroup {
	pos := make(map[string]int)
	var groups []BoosterGroup
	for _, rec := range records {
		i, ok := pos[rec.BoosterVersionCategory]
		if !ok {
			i = len(groups)
			pos[rec.BoosterVersionCategory] = i
			groups = append(groups, BoosterGroup{Category: rec.BoosterVersionCategory})
		}
		groups[i].Launches = append(groups[i].Launches, rec)
	}
	return groups
}
