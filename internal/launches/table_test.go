package launches

import (
	"errors"
	"strings"
	"testing"

	"spacex-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	table, err := LoadFile("testdata/launches.csv")
	require.NoError(t, err)

	assert.Equal(t, 16, table.Len())
	assert.Equal(t, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}, table.Sites())
	assert.Equal(t, []string{"v1.0", "v1.1", "FT", "B4", "B5"}, table.BoosterCategories())

	first := table.Records()[0]
	assert.Equal(t, models.Launch{
		FlightNumber:           1,
		LaunchSite:             "CCAFS LC-40",
		PayloadMassKg:          0,
		Class:                  models.Failure,
		BoosterVersion:         "F9 v1.0  B0003",
		BoosterVersionCategory: "v1.0",
	}, first)

	min, max := table.PayloadBounds()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 9600.0, max)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile("testdata/missing.csv")
	assert.Error(t, err)
}

func TestLoad_ColumnsInAnyOrder(t *testing.T) {
	in := "Booster Version Category,class,Payload Mass (kg),Launch Site\n" +
		"FT,1,3000,A\n" +
		"B4,0,7000.5,A\n"

	table, err := Load(strings.NewReader(in))
	require.NoError(t, err)

	recs := table.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[1].LaunchSite)
	assert.Equal(t, 7000.5, recs[1].PayloadMassKg)
	assert.Equal(t, models.Failure, recs[1].Class)
	assert.Equal(t, "B4", recs[1].BoosterVersionCategory)
	assert.Zero(t, recs[1].FlightNumber)
}

func TestLoad_Errors(t *testing.T) {
	header := "Launch Site,Payload Mass (kg),class,Booster Version Category\n"

	tests := []struct {
		name   string
		input  string
		target error
		column string
	}{
		{name: "empty file", input: "", target: ErrEmpty},
		{name: "header only", input: header, target: ErrEmpty},
		{name: "missing column", input: "Launch Site,class\nA,1\n", target: ErrMissingColumn},
		{name: "duplicate column", input: "Launch Site,Payload Mass (kg),class,class,Booster Version Category\nA,100,1,0,FT\n", target: ErrDuplicateColumn},
		{name: "bad payload", input: header + "A,heavy,1,FT\n", column: ColPayloadMass},
		{name: "negative payload", input: header + "A,-1,1,FT\n", column: ColPayloadMass},
		{name: "bad class", input: header + "A,100,2,FT\n", column: ColClass},
		{name: "empty site", input: header + ",100,1,FT\n", column: ColLaunchSite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.Error(t, err)

			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
				return
			}
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, tt.column, perr.Column)
			assert.Equal(t, 2, perr.Line)
		})
	}
}

func TestLoad_RepeatedUnknownColumns(t *testing.T) {
	in := ",,Launch Site,Payload Mass (kg),class,Booster Version Category\n" +
		"0,0,A,100,1,FT\n"

	table, err := Load(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestNewTable_Validates(t *testing.T) {
	_, err := NewTable([]models.Launch{{LaunchSite: "A", PayloadMassKg: 10, Class: 3}})
	assert.Error(t, err)

	_, err = NewTable([]models.Launch{{LaunchSite: "A", PayloadMassKg: -5, Class: models.Success}})
	assert.Error(t, err)

	table, err := NewTable([]models.Launch{{LaunchSite: "A", PayloadMassKg: 5, Class: models.Success}})
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestPayloadBounds_Empty(t *testing.T) {
	table, err := NewTable(nil)
	require.NoError(t, err)

	min, max := table.PayloadBounds()
	assert.Zero(t, min)
	assert.Zero(t, max)
}
