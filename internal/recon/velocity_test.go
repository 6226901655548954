package recon

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

func testField(t *testing.T) *VelocityField {
	t.Helper()
	field, err := NewVelocityField(
		[]domain.Point{{Lon: -140, Lat: 2}, {Lon: 135, Lat: -25}, {Lon: 20, Lat: 85}},
		[]domain.VelocitySample{
			{East: 3, North: 4, PlateID: 901},
			{East: -6, North: 8, PlateID: 801},
			{East: 0, North: 0, PlateID: 0},
		},
	)
	require.NoError(t, err)
	return field
}

func TestNewVelocityField_DerivedColumns(t *testing.T) {
	field := testField(t)

	assert.Equal(t, 3, field.Len())
	assert.Equal(t, 5.0, field.Magnitude[0])
	assert.Equal(t, 10.0, field.Magnitude[1])
	assert.Equal(t, 0.0, field.Magnitude[2])

	// atan2(3, 4) east of north.
	assert.InDelta(t, 36.87, field.Azimuth[0], 0.01)
	// North-west quadrant normalizes into [0, 360).
	assert.InDelta(t, 323.13, field.Azimuth[1], 0.01)
	assert.Equal(t, 0.0, field.Azimuth[2])
}

func TestNewVelocityField_LengthMismatch(t *testing.T) {
	_, err := NewVelocityField(
		[]domain.Point{{Lon: 0, Lat: 0}},
		[]domain.VelocitySample{{}, {}},
	)
	require.Error(t, err)
}

func TestVelocityField_Columns(t *testing.T) {
	field := testField(t)
	assert.Equal(t, []string{"lon", "lat", "vel_east", "vel_north", "vel_mag", "vel_azimuth", "plate_id"}, field.Columns())
}

func TestVelocityField_RMS(t *testing.T) {
	field := testField(t)

	// All rows: sqrt((25 + 100 + 0) / 3).
	assert.InDelta(t, math.Sqrt(125.0/3), field.RMS(), 1e-12)

	// Restricted to one plate.
	assert.Equal(t, 5.0, field.RMS(901))
	assert.InDelta(t, math.Sqrt(62.5), field.RMS(901, 801), 1e-12)

	// No matching plates.
	assert.Equal(t, 0.0, field.RMS(999))
}

func TestVelocityField_WriteCSV(t *testing.T) {
	field := testField(t)

	var buf bytes.Buffer
	require.NoError(t, field.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "lon,lat,vel_east,vel_north,vel_mag,vel_azimuth,plate_id", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "-140,2,3,4,5,"))
	assert.True(t, strings.HasSuffix(lines[1], ",901"))
	assert.Equal(t, "20,85,0,0,0,0,0", lines[3])
}
