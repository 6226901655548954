package recon

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

// VelocityField is a table of plate velocities on a point distribution.
// Column slices are parallel; points outside all plates carry zero velocity
// and plate ID 0.
type VelocityField struct {
	Lon       []float64
	Lat       []float64
	East      []float64 // cm/yr
	North     []float64 // cm/yr
	Magnitude []float64 // cm/yr
	Azimuth   []float64 // degrees clockwise from north, [0, 360)
	PlateIDs  []int
}

// velocityFieldColumns is the documented column list of the velocity table.
var velocityFieldColumns = []string{"lon", "lat", "vel_east", "vel_north", "vel_mag", "vel_azimuth", "plate_id"}

// NewVelocityField assembles the table from domain points and their engine
// velocity samples. Magnitude and azimuth are derived from the east/north
// components.
func NewVelocityField(points []domain.Point, samples []domain.VelocitySample) (*VelocityField, error) {
	if len(points) != len(samples) {
		return nil, fmt.Errorf("velocity field: %d points but %d samples", len(points), len(samples))
	}

	f := &VelocityField{
		Lon:       make([]float64, len(points)),
		Lat:       make([]float64, len(points)),
		East:      make([]float64, len(points)),
		North:     make([]float64, len(points)),
		Magnitude: make([]float64, len(points)),
		Azimuth:   make([]float64, len(points)),
		PlateIDs:  make([]int, len(points)),
	}
	for i, p := range points {
		s := samples[i]
		f.Lon[i] = p.Lon
		f.Lat[i] = p.Lat
		f.East[i] = s.East
		f.North[i] = s.North
		f.Magnitude[i] = math.Hypot(s.East, s.North)
		f.Azimuth[i] = azimuthDegrees(s.East, s.North)
		f.PlateIDs[i] = s.PlateID
	}
	return f, nil
}

// Len returns the number of rows.
func (f *VelocityField) Len() int { return len(f.Lon) }

// Columns returns the table's column names in order.
func (f *VelocityField) Columns() []string {
	return slices.Clone(velocityFieldColumns)
}

// RMS returns the quadratic mean of velocity magnitudes. With plate IDs
// given, only rows on those plates contribute. Returns 0 for an empty
// selection.
func (f *VelocityField) RMS(plateIDs ...int) float64 {
	var sum float64
	var n int
	for i, mag := range f.Magnitude {
		if len(plateIDs) > 0 && !slices.Contains(plateIDs, f.PlateIDs[i]) {
			continue
		}
		sum += mag * mag
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// WriteCSV writes the table with a header row.
func (f *VelocityField) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(velocityFieldColumns); err != nil {
		return err
	}
	for i := range f.Lon {
		record := []string{
			formatFloat(f.Lon[i]),
			formatFloat(f.Lat[i]),
			formatFloat(f.East[i]),
			formatFloat(f.North[i]),
			formatFloat(f.Magnitude[i]),
			formatFloat(f.Azimuth[i]),
			strconv.Itoa(f.PlateIDs[i]),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// azimuthDegrees converts east/north components to a compass azimuth in
// [0, 360): 0 = north, 90 = east. Zero vectors map to 0.
func azimuthDegrees(east, north float64) float64 {
	if east == 0 && north == 0 {
		return 0
	}
	deg := math.Atan2(east, north) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
