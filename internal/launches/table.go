// Package launches holds the in-memory launch record table and the two
// queries the dashboard runs against it: the success-ratio aggregation and
// the payload range filter.
package launches

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"spacex-dashboard/internal/models"
)

// Column names of the launch CSV export.
const (
	ColFlightNumber           = "Flight Number"
	ColLaunchSite             = "Launch Site"
	ColPayloadMass            = "Payload Mass (kg)"
	ColClass                  = "class"
	ColBoosterVersion         = "Booster Version"
	ColBoosterVersionCategory = "Booster Version Category"
)

var requiredColumns = []string{
	ColLaunchSite,
	ColPayloadMass,
	ColClass,
	ColBoosterVersionCategory,
}

// knownColumns are the columns the loader reads; each may appear only once.
var knownColumns = map[string]bool{
	ColFlightNumber:           true,
	ColLaunchSite:             true,
	ColPayloadMass:            true,
	ColClass:                  true,
	ColBoosterVersion:         true,
	ColBoosterVersionCategory: true,
}

var (
	ErrEmpty         = errors.New("launch table is empty")
	ErrMissingColumn   = errors.New("missing required column")
	ErrDuplicateColumn = errors.New("duplicate column")
)

// ParseError reports a malformed cell in the input file.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Table is a read-only set of launch records. It is safe for concurrent use
// because nothing mutates it after construction.
type Table struct {
	records []models.Launch
}

// NewTable validates records and wraps them in a Table.
func NewTable(records []models.Launch) (*Table, error) {
	for i, rec := range records {
		if err := validate(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	cp := make([]models.Launch, len(records))
	copy(cp, records)
	return &Table{records: cp}, nil
}

func validate(rec models.Launch) error {
	if rec.LaunchSite == "" {
		return errors.New("launch site is empty")
	}
	if math.IsNaN(rec.PayloadMassKg) || math.IsInf(rec.PayloadMassKg, 0) || rec.PayloadMassKg < 0 {
		return fmt.Errorf("invalid payload mass %v", rec.PayloadMassKg)
	}
	if !rec.Class.Valid() {
		return fmt.Errorf("invalid outcome class %d", rec.Class)
	}
	return nil
}

// LoadFile reads a launch table from a CSV file on disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open launch file: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Load parses a comma-delimited launch table with a header row. Columns are
// matched by header name; unknown columns are ignored.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := idx[name]; dup && knownColumns[name] {
			return nil, fmt.Errorf("read header: %w: %q", ErrDuplicateColumn, name)
		}
		idx[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	var records []models.Launch
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, idx, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}
	return &Table{records: records}, nil
}

func parseRow(row []string, idx map[string]int, line int) (models.Launch, error) {
	cell := func(name string) (string, bool) {
		i, ok := idx[name]
		if !ok {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}
	fail := func(col string, err error) (models.Launch, error) {
		return models.Launch{}, &ParseError{Line: line, Column: col, Err: err}
	}

	var rec models.Launch

	rec.LaunchSite, _ = cell(ColLaunchSite)
	if rec.LaunchSite == "" {
		return fail(ColLaunchSite, errors.New("empty value"))
	}
	rec.BoosterVersionCategory, _ = cell(ColBoosterVersionCategory)
	rec.BoosterVersion, _ = cell(ColBoosterVersion)

	v, _ := cell(ColPayloadMass)
	mass, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fail(ColPayloadMass, err)
	}
	if math.IsNaN(mass) || math.IsInf(mass, 0) || mass < 0 {
		return fail(ColPayloadMass, fmt.Errorf("payload mass must be a non-negative number, got %q", v))
	}
	rec.PayloadMassKg = mass

	v, _ = cell(ColClass)
	class, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fail(ColClass, err)
	}
	switch class {
	case 0:
		rec.Class = models.Failure
	case 1:
		rec.Class = models.Success
	default:
		return fail(ColClass, fmt.Errorf("outcome class must be 0 or 1, got %q", v))
	}

	if v, ok := cell(ColFlightNumber); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(ColFlightNumber, err)
		}
		rec.FlightNumber = n
	}

	return rec, nil
}

func (t *Table) Len() int { return len(t.records) }

// Records returns a copy of every record in load order.
func (t *Table) Records() []models.Launch {
	out := make([]models.Launch, len(t.records))
	copy(out, t.records)
	return out
}

// Sites returns the distinct launch sites in first-appearance order.
func (t *Table) Sites() []string {
	return distinct(t.records, func(l models.Launch) string { return l.LaunchSite })
}

// BoosterCategories returns the distinct booster version categories in
// first-appearance order.
func (t *Table) BoosterCategories() []string {
	return distinct(t.records, func(l models.Launch) string { return l.BoosterVersionCategory })
}

// PayloadBounds returns the smallest and largest payload mass in the table,
// or (0, 0) when the table is empty.
func (t *Table) PayloadBounds() (min, max float64) {
	if len(t.records) == 0 {
		return 0, 0
	}
	min, max = t.records[0].PayloadMassKg, t.records[0].PayloadMassKg
	for _, rec := range t.records[1:] {
		if rec.PayloadMassKg < min {
			min = rec.PayloadMassKg
		}
		if rec.PayloadMassKg > max {
			max = rec.PayloadMassKg
		}
	}
	return min, max
}

func distinct(records []models.Launch, key func(models.Launch) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		k := key(rec)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
