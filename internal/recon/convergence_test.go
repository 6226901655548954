package recon

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

func sampleConvergence() []domain.ConvergenceSample {
	return []domain.ConvergenceSample{
		{
			Lon: 142.1, Lat: 38.3,
			ConvergenceRate: 8.5, ConvergenceObliquity: 12,
			MigrationRate: -1.2, MigrationObliquity: 170,
			ArcLengthDeg: 0.5, ArcAzimuth: 195,
			SubductingPlate: 901, OverridingPlate: 601,
		},
		{
			Lon: -71.5, Lat: -33.0,
			ConvergenceRate: 7.1, ConvergenceObliquity: 5,
			MigrationRate: 0.4, MigrationObliquity: 20,
			ArcLengthDeg: 0.5, ArcAzimuth: 10,
			SubductingPlate: 902, OverridingPlate: 201,
		},
	}
}

func TestSubductionConvergence(t *testing.T) {
	engine := &fakeEngine{samples: sampleConvergence()}

	table, err := SubductionConvergence(context.Background(), engine, domain.SubductionQuery{
		Model: "MULLER2019", TimeMa: 50, VelocityDeltaTime: 1, SamplingDeg: 0.5,
	})
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, 50.0, table.Rows[0].TimeMa)
	assert.Equal(t, 8.5, table.Rows[0].ConvergenceRate)
	assert.Equal(t, 902, table.Rows[1].SubductingPlate)
}

func TestSubductionConvergence_EngineError(t *testing.T) {
	engine := &fakeEngine{err: assert.AnError}
	_, err := SubductionConvergence(context.Background(), engine, domain.SubductionQuery{TimeMa: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subduction convergence at 50 Ma")
}

func TestConvergenceTable_Append(t *testing.T) {
	a := NewConvergenceTable(sampleConvergence(), 50)
	b := NewConvergenceTable(sampleConvergence()[:1], 49)

	a.Append(b)
	require.Equal(t, 3, a.Len())
	assert.Equal(t, 50.0, a.Rows[0].TimeMa)
	assert.Equal(t, 49.0, a.Rows[2].TimeMa)
}

func TestConvergenceTable_Columns(t *testing.T) {
	table := NewConvergenceTable(nil, 0)
	assert.Equal(t, []string{
		"lon", "lat", "conv_rate", "conv_obliq", "migr_rate", "migr_obliq",
		"arc_length", "arc_azimuth", "subducting_plate", "overriding_plate", "time",
	}, table.Columns())
}

func TestConvergenceTable_WriteCSV(t *testing.T) {
	table := NewConvergenceTable(sampleConvergence(), 50)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(table.Columns(), ","), lines[0])
	assert.Equal(t, "142.1,38.3,8.5,12,-1.2,170,0.5,195,901,601,50", lines[1])
}
