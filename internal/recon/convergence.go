package recon

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

// ConvergenceRow is one subduction-zone sample tagged with its
// reconstruction time.
type ConvergenceRow struct {
	Lon                  float64 `json:"lon"`
	Lat                  float64 `json:"lat"`
	ConvergenceRate      float64 `json:"conv_rate"`
	ConvergenceObliquity float64 `json:"conv_obliq"`
	MigrationRate        float64 `json:"migr_rate"`
	MigrationObliquity   float64 `json:"migr_obliq"`
	ArcLengthDeg         float64 `json:"arc_length"`
	ArcAzimuth           float64 `json:"arc_azimuth"`
	SubductingPlate      int     `json:"subducting_plate"`
	OverridingPlate      int     `json:"overriding_plate"`
	TimeMa               float64 `json:"time"`
}

// convergenceColumns is the documented column list of the convergence table.
var convergenceColumns = []string{
	"lon", "lat", "conv_rate", "conv_obliq", "migr_rate", "migr_obliq",
	"arc_length", "arc_azimuth", "subducting_plate", "overriding_plate", "time",
}

// ConvergenceTable holds subduction kinematics for one or more
// reconstruction times.
type ConvergenceTable struct {
	Rows []ConvergenceRow
}

// SubductionConvergence samples convergence statistics along all subduction
// zones at q.TimeMa and returns them as a table.
func SubductionConvergence(ctx context.Context, engine domain.ReconstructionEngine, q domain.SubductionQuery) (*ConvergenceTable, error) {
	samples, err := engine.SubductionZones(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("subduction convergence at %g Ma: %w", q.TimeMa, err)
	}
	return NewConvergenceTable(samples, q.TimeMa), nil
}

// NewConvergenceTable tags engine samples with their reconstruction time.
func NewConvergenceTable(samples []domain.ConvergenceSample, timeMa float64) *ConvergenceTable {
	rows := make([]ConvergenceRow, len(samples))
	for i, s := range samples {
		rows[i] = ConvergenceRow{
			Lon:                  s.Lon,
			Lat:                  s.Lat,
			ConvergenceRate:      s.ConvergenceRate,
			ConvergenceObliquity: s.ConvergenceObliquity,
			MigrationRate:        s.MigrationRate,
			MigrationObliquity:   s.MigrationObliquity,
			ArcLengthDeg:         s.ArcLengthDeg,
			ArcAzimuth:           s.ArcAzimuth,
			SubductingPlate:      s.SubductingPlate,
			OverridingPlate:      s.OverridingPlate,
			TimeMa:               timeMa,
		}
	}
	return &ConvergenceTable{Rows: rows}
}

// Append merges another table's rows into this one.
func (t *ConvergenceTable) Append(other *ConvergenceTable) {
	t.Rows = append(t.Rows, other.Rows...)
}

// Len returns the number of rows.
func (t *ConvergenceTable) Len() int { return len(t.Rows) }

// Columns returns the table's column names in order.
func (t *ConvergenceTable) Columns() []string {
	return slices.Clone(convergenceColumns)
}

// WriteCSV writes the table with a header row.
func (t *ConvergenceTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(convergenceColumns); err != nil {
		return err
	}
	for _, r := range t.Rows {
		record := []string{
			formatFloat(r.Lon),
			formatFloat(r.Lat),
			formatFloat(r.ConvergenceRate),
			formatFloat(r.ConvergenceObliquity),
			formatFloat(r.MigrationRate),
			formatFloat(r.MigrationObliquity),
			formatFloat(r.ArcLengthDeg),
			formatFloat(r.ArcAzimuth),
			strconv.Itoa(r.SubductingPlate),
			strconv.Itoa(r.OverridingPlate),
			formatFloat(r.TimeMa),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
