package launches

import (
	"math"
	"testing"

	"spacex-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable([]models.Launch{
		{LaunchSite: "A", PayloadMassKg: 3000, Class: models.Success, BoosterVersionCategory: "FT"},
		{LaunchSite: "A", PayloadMassKg: 7000, Class: models.Failure, BoosterVersionCategory: "B4"},
		{LaunchSite: "B", PayloadMassKg: 5000, Class: models.Success, BoosterVersionCategory: "FT"},
	})
	require.NoError(t, err)
	return table
}

func fixtureTable(t *testing.T) *Table {
	t.Helper()
	table, err := LoadFile("testdata/launches.csv")
	require.NoError(t, err)
	return table
}

func TestSuccessCounts_Site(t *testing.T) {
	table := exampleTable(t)

	got := table.SuccessCounts("A")
	assert.Equal(t, 1, got.Count("Success"))
	assert.Equal(t, 1, got.Count("Failure"))
	assert.Equal(t, 2, got.Total())
}

func TestSuccessCounts_OrderedByCount(t *testing.T) {
	table := fixtureTable(t)

	got := table.SuccessCounts("CCAFS LC-40")
	assert.Equal(t, Distribution{{"Failure", 7}, {"Success", 1}}, got)

	got = table.SuccessCounts("KSC LC-39A")
	assert.Equal(t, Distribution{{"Success", 3}, {"Failure", 1}}, got)
}

func TestSuccessCounts_AllSites(t *testing.T) {
	table := fixtureTable(t)

	got := table.SuccessCounts(AllSites)
	assert.Equal(t, Distribution{
		{"CCAFS LC-40", 1},
		{"VAFB SLC-4E", 1},
		{"KSC LC-39A", 3},
		{"CCAFS SLC-40", 1},
	}, got)

	successes := 0
	for _, rec := range table.Records() {
		if rec.Class == models.Success {
			successes++
		}
	}
	assert.Equal(t, successes, got.Total())
}

func TestSuccessCounts_SumsToSiteRecords(t *testing.T) {
	table := fixtureTable(t)

	for _, site := range table.Sites() {
		n := len(table.FilterByPayload(site, Range{Low: 0, High: 1e9}))
		assert.Equal(t, n, table.SuccessCounts(site).Total(), site)
	}
}

func TestSuccessCounts_UnknownSite(t *testing.T) {
	table := exampleTable(t)

	got := table.SuccessCounts("Boca Chica")
	assert.Empty(t, got)
	assert.Zero(t, got.Total())
}

func TestFilterByPayload_Example(t *testing.T) {
	table := exampleTable(t)
	recs := table.Records()

	got := table.FilterByPayload("A", Range{Low: 0, High: 10000})
	assert.Equal(t, recs[:2], got)
}

func TestFilterByPayload_InclusiveBounds(t *testing.T) {
	table := exampleTable(t)

	got := table.FilterByPayload(AllSites, Range{Low: 3000, High: 5000})
	require.Len(t, got, 2)
	assert.Equal(t, 3000.0, got[0].PayloadMassKg)
	assert.Equal(t, 5000.0, got[1].PayloadMassKg)

	got = table.FilterByPayload(AllSites, Range{Low: 7000, High: 7000})
	require.Len(t, got, 1)
}

func TestFilterByPayload_WithinRange(t *testing.T) {
	table := fixtureTable(t)

	ranges := []Range{{0, 10000}, {2000, 4000}, {500, 500}, {9601, 20000}}
	for _, r := range ranges {
		for _, site := range append(table.Sites(), AllSites) {
			for _, rec := range table.FilterByPayload(site, r) {
				assert.True(t, r.Contains(rec.PayloadMassKg), "%v outside %v", rec.PayloadMassKg, r)
				if site != AllSites {
					assert.Equal(t, site, rec.LaunchSite)
				}
			}
		}
	}
}

func TestFilterByPayload_NarrowingIsSubset(t *testing.T) {
	table := fixtureTable(t)

	wide := table.FilterByPayload(AllSites, Range{Low: 0, High: 10000})
	narrow := table.FilterByPayload(AllSites, Range{Low: 2000, High: 4000})

	assert.LessOrEqual(t, len(narrow), len(wide))
	assert.Subset(t, wide, narrow)
	assert.Len(t, wide, table.Len())
}

func TestFilterByPayload_NoMatch(t *testing.T) {
	table := exampleTable(t)

	got := table.FilterByPayload("C", Range{Low: 0, High: 10000})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRangeValidate(t *testing.T) {
	assert.NoError(t, Range{Low: 0, High: 0}.Validate())
	assert.NoError(t, Range{Low: 0, High: 10000}.Validate())
	assert.ErrorIs(t, Range{Low: 10, High: 1}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, Range{Low: math.NaN(), High: 1}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, Range{Low: 0, High: math.Inf(1)}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, Range{Low: math.Inf(-1), High: 0}.Validate(), ErrInvalidRange)
}

func TestGroupByBooster(t *testing.T) {
	table := exampleTable(t)

	groups := GroupByBooster(table.Records())
	require.Len(t, groups, 2)
	assert.Equal(t, "FT", groups[0].Category)
	assert.Len(t, groups[0].Launches, 2)
	assert.Equal(t, "B4", groups[1].Category)
	assert.Len(t, groups[1].Launches, 1)

	assert.Empty(t, GroupByBooster(nil))
}
