package domain

import "context"

// SubductionQuery parameterizes a subduction-zone convergence computation.
type SubductionQuery struct {
	Model             string  // engine model tag
	TimeMa            float64 // reconstruction time
	VelocityDeltaTime float64 // interval for stage rotations, Myr
	SamplingDeg       float64 // threshold sampling distance along trenches, degrees of arc
	AnchorPlateID     int
}

// VelocityQuery parameterizes a point-velocity computation.
type VelocityQuery struct {
	Model     string
	TimeMa    float64
	DeltaTime float64 // Myr
	Points    []Point
}

// ReconstructQuery parameterizes reconstruction of present-day points to a
// past position. PlateIDs must be parallel to Points.
type ReconstructQuery struct {
	Model         string
	Points        []Point
	PlateIDs      []int
	TimeMa        float64
	AnchorPlateID int
}

// ReconstructionEngine is the boundary to the external plate reconstruction
// engine. Implementations delegate all topology resolution, stage-rotation
// algebra, and velocity transforms to the engine; callers only reshape the
// results.
type ReconstructionEngine interface {
	// ResolveTopologies returns the closed plate polygons at a reconstruction time.
	ResolveTopologies(ctx context.Context, model string, timeMa float64, anchorPlateID int) ([]ResolvedTopology, error)

	// SubductionZones samples convergence kinematics along all subduction zones.
	SubductionZones(ctx context.Context, q SubductionQuery) ([]ConvergenceSample, error)

	// AssignPlateIDs partitions present-day points into static polygons and
	// returns one plate ID per point, 0 for unpartitioned points.
	AssignPlateIDs(ctx context.Context, model string, points []Point) ([]int, error)

	// PointVelocities computes plate velocities at the given points, zeros
	// for points outside all plates.
	PointVelocities(ctx context.Context, q VelocityQuery) ([]VelocitySample, error)

	// ReconstructPoints rotates points to their position at q.TimeMa using
	// each point's assigned plate.
	ReconstructPoints(ctx context.Context, q ReconstructQuery) ([]Point, error)
}
