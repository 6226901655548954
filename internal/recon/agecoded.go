package recon

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

// ErrUnknownAppearanceMode is returned for an unrecognized reconstruct-to-
// appearance mode.
var ErrUnknownAppearanceMode = errors.New("unknown appearance mode")

// ErrPlatesNotAssigned is returned when reconstruction is requested before
// AssignPlates has partitioned the points.
var ErrPlatesNotAssigned = errors.New("plate ids not assigned; call AssignPlates first")

// AppearanceMode selects the target time when reconstructing age-coded
// points to their time of appearance.
type AppearanceMode string

const (
	// BirthTime reconstructs each point to its age.
	BirthTime AppearanceMode = "birth"
	// MidTime reconstructs each point to half its age, the midpoint of its
	// lifetime from appearance to present.
	MidTime AppearanceMode = "mid"
)

// ageBucket is the granularity, in Myr, at which per-point target times are
// grouped into engine calls.
const ageBucket = 0.1

// AgeCodedPoints is a set of present-day points each carrying a geological
// age, such as seamount eruption ages or magnetic pick chron ages.
type AgeCodedPoints struct {
	points   []domain.Point
	ages     []float64
	plateIDs []int

	model  domain.Model
	engine domain.ReconstructionEngine
}

// NewAgeCodedPoints builds an age-coded point set from parallel longitude,
// latitude, and age slices.
func NewAgeCodedPoints(lons, lats, ages []float64) (*AgeCodedPoints, error) {
	if len(lons) != len(lats) || len(lons) != len(ages) {
		return nil, fmt.Errorf("age-coded points: mismatched lengths lon=%d lat=%d age=%d", len(lons), len(lats), len(ages))
	}
	points := make([]domain.Point, len(lons))
	for i := range lons {
		if lats[i] < -90 || lats[i] > 90 {
			return nil, fmt.Errorf("age-coded points: row %d: latitude %g out of range", i, lats[i])
		}
		if ages[i] < 0 {
			return nil, fmt.Errorf("age-coded points: row %d: negative age %g", i, ages[i])
		}
		points[i] = domain.Point{Lon: lons[i], Lat: lats[i]}
	}
	return &AgeCodedPoints{points: points, ages: append([]float64(nil), ages...)}, nil
}

// Len returns the number of points.
func (a *AgeCodedPoints) Len() int { return len(a.points) }

// PlateIDs returns the assigned plate IDs, nil before AssignPlates.
func (a *AgeCodedPoints) PlateIDs() []int { return a.plateIDs }

// AssignPlates partitions the points into the model's static polygons and
// records the resulting plate IDs for later reconstruction.
func (a *AgeCodedPoints) AssignPlates(ctx context.Context, engine domain.ReconstructionEngine, model domain.Model) error {
	ids, err := engine.AssignPlateIDs(ctx, model.EngineTag, a.points)
	if err != nil {
		return fmt.Errorf("assign plates: %w", err)
	}
	a.plateIDs = ids
	a.model = model
	a.engine = engine
	return nil
}

// ReconstructedPoint is one age-coded point rotated to a past position.
type ReconstructedPoint struct {
	Lon     float64
	Lat     float64
	TimeMa  float64
	PlateID int
}

// ReconstructTo rotates all partitioned points to their position at timeMa.
// Points with plate ID 0 (outside all static polygons) are skipped.
func (a *AgeCodedPoints) ReconstructTo(ctx context.Context, timeMa float64, anchorPlateID int) ([]ReconstructedPoint, error) {
	if a.plateIDs == nil {
		return nil, ErrPlatesNotAssigned
	}

	points, ids := a.partitioned()
	if len(points) == 0 {
		return nil, nil
	}

	reconstructed, err := a.engine.ReconstructPoints(ctx, domain.ReconstructQuery{
		Model:         a.model.EngineTag,
		Points:        points,
		PlateIDs:      ids,
		TimeMa:        timeMa,
		AnchorPlateID: anchorPlateID,
	})
	if err != nil {
		return nil, fmt.Errorf("reconstruct to %g Ma: %w", timeMa, err)
	}

	result := make([]ReconstructedPoint, len(reconstructed))
	for i, p := range reconstructed {
		result[i] = ReconstructedPoint{Lon: p.Lon, Lat: p.Lat, TimeMa: timeMa, PlateID: ids[i]}
	}
	return result, nil
}

// ReconstructToAppearance rotates each partitioned point to its own time of
// appearance (or lifetime midpoint). Points sharing a target time within
// 0.1 Myr are reconstructed in one engine call.
func (a *AgeCodedPoints) ReconstructToAppearance(ctx context.Context, mode AppearanceMode, anchorPlateID int) ([]ReconstructedPoint, error) {
	if a.plateIDs == nil {
		return nil, ErrPlatesNotAssigned
	}

	type member struct {
		point   domain.Point
		plateID int
	}
	groups := make(map[int64][]member)

	for i, p := range a.points {
		if a.plateIDs[i] == 0 {
			continue
		}
		var target float64
		switch mode {
		case BirthTime:
			target = a.ages[i]
		case MidTime:
			target = a.ages[i] / 2
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownAppearanceMode, mode)
		}
		bucket := int64(math.Round(target / ageBucket))
		groups[bucket] = append(groups[bucket], member{point: p, plateID: a.plateIDs[i]})
	}

	// Deterministic order: oldest first.
	buckets := make([]int64, 0, len(groups))
	for b := range groups {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] > buckets[j] })

	var result []ReconstructedPoint
	for _, b := range buckets {
		members := groups[b]
		timeMa := float64(b) * ageBucket

		points := make([]domain.Point, len(members))
		ids := make([]int, len(members))
		for i, m := range members {
			points[i] = m.point
			ids[i] = m.plateID
		}

		reconstructed, err := a.engine.ReconstructPoints(ctx, domain.ReconstructQuery{
			Model:         a.model.EngineTag,
			Points:        points,
			PlateIDs:      ids,
			TimeMa:        timeMa,
			AnchorPlateID: anchorPlateID,
		})
		if err != nil {
			return nil, fmt.Errorf("reconstruct appearance group at %g Ma: %w", timeMa, err)
		}
		for i, p := range reconstructed {
			result = append(result, ReconstructedPoint{Lon: p.Lon, Lat: p.Lat, TimeMa: timeMa, PlateID: ids[i]})
		}
	}
	return result, nil
}

// partitioned returns the points and plate IDs of all points that fell
// inside a static polygon.
func (a *AgeCodedPoints) partitioned() ([]domain.Point, []int) {
	var (
		points []domain.Point
		ids    []int
	)
	for i, id := range a.plateIDs {
		if id == 0 {
			continue
		}
		points = append(points, a.points[i])
		ids = append(ids, id)
	}
	return points, ids
}
