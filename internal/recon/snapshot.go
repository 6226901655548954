package recon

import (
	"context"
	"fmt"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

// PlateSnapshot holds the plate polygons resolved by the engine at one
// reconstruction time, with per-plate summary statistics.
type PlateSnapshot struct {
	Model         domain.Model
	TimeMa        float64
	AnchorPlateID int
	Topologies    []domain.ResolvedTopology

	engine domain.ReconstructionEngine
}

// Snapshot resolves the plate configuration at timeMa.
func Snapshot(ctx context.Context, engine domain.ReconstructionEngine, model domain.Model, timeMa float64, anchorPlateID int) (*PlateSnapshot, error) {
	topologies, err := engine.ResolveTopologies(ctx, model.EngineTag, timeMa, anchorPlateID)
	if err != nil {
		return nil, fmt.Errorf("resolve topologies at %g Ma: %w", timeMa, err)
	}
	return &PlateSnapshot{
		Model:         model,
		TimeMa:        timeMa,
		AnchorPlateID: anchorPlateID,
		Topologies:    topologies,
		engine:        engine,
	}, nil
}

// PlateCount returns the number of resolved plate polygons.
func (s *PlateSnapshot) PlateCount() int { return len(s.Topologies) }

// PlateIDs returns the reconstruction plate ID of each resolved polygon.
func (s *PlateSnapshot) PlateIDs() []int {
	ids := make([]int, len(s.Topologies))
	for i, t := range s.Topologies {
		ids[i] = t.PlateID
	}
	return ids
}

// AreasKm2 returns the area of each resolved polygon in km².
func (s *PlateSnapshot) AreasKm2() []float64 {
	areas := make([]float64, len(s.Topologies))
	for i, t := range s.Topologies {
		areas[i] = t.AreaKm2
	}
	return areas
}

// PerimetersKm returns the boundary length of each resolved polygon in km.
func (s *PlateSnapshot) PerimetersKm() []float64 {
	perims := make([]float64, len(s.Topologies))
	for i, t := range s.Topologies {
		perims[i] = t.PerimeterKm
	}
	return perims
}

// Centroids returns the interior centroid of each resolved polygon.
func (s *PlateSnapshot) Centroids() []domain.Point {
	centroids := make([]domain.Point, len(s.Topologies))
	for i, t := range s.Topologies {
		centroids[i] = t.Centroid
	}
	return centroids
}

// TotalAreaKm2 returns the summed area of all resolved polygons.
func (s *PlateSnapshot) TotalAreaKm2() float64 {
	var total float64
	for _, t := range s.Topologies {
		total += t.AreaKm2
	}
	return total
}

// VelocityField computes plate velocities on the distribution points at the
// snapshot time, using stage rotations over deltaTime Myr.
func (s *PlateSnapshot) VelocityField(ctx context.Context, dist PointDistribution, deltaTime float64) (*VelocityField, error) {
	samples, err := s.engine.PointVelocities(ctx, domain.VelocityQuery{
		Model:     s.Model.EngineTag,
		TimeMa:    s.TimeMa,
		DeltaTime: deltaTime,
		Points:    dist.Points,
	})
	if err != nil {
		return nil, fmt.Errorf("point velocities at %g Ma: %w", s.TimeMa, err)
	}
	return NewVelocityField(dist.Points, samples)
}
