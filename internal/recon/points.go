// Package recon layers convenience types over the external reconstruction
// engine: plate snapshots, velocity fields, subduction convergence tables,
// and time-reconstruction of age-coded point sets. It reshapes engine
// output; it does not compute plate kinematics itself.
package recon

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

// ErrUnknownDistribution is returned for an unrecognized distribution kind.
var ErrUnknownDistribution = errors.New("unknown point distribution")

// Distribution kinds accepted by NewDistribution.
const (
	DistributionRandom    = "random"
	DistributionFibonacci = "fibonacci"
)

// PointDistribution is a set of points spread over the sphere, used as the
// domain for velocity fields.
type PointDistribution struct {
	Points []domain.Point
}

// NewDistribution builds a distribution of n points of the given kind.
// The seed only affects the random kind.
func NewDistribution(kind string, n int, seed int64) (PointDistribution, error) {
	switch kind {
	case DistributionRandom:
		return NewRandomDistribution(n, seed), nil
	case DistributionFibonacci:
		return NewFibonacciDistribution(n), nil
	default:
		return PointDistribution{}, fmt.Errorf("%w: %q", ErrUnknownDistribution, kind)
	}
}

// NewRandomDistribution draws n points uniformly on the sphere using
// Marsaglia's method: three standard normal deviates normalized to the unit
// sphere.
func NewRandomDistribution(n int, seed int64) PointDistribution {
	rng := rand.New(rand.NewSource(seed))
	points := make([]domain.Point, 0, n)
	for len(points) < n {
		x, y, z := rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()
		r := math.Sqrt(x*x + y*y + z*z)
		if r == 0 {
			continue
		}
		points = append(points, cartesianToPoint(x/r, y/r, z/r))
	}
	return PointDistribution{Points: points}
}

// NewFibonacciDistribution builds a quasi-uniform Fibonacci lattice of n
// points, the mesh-style analogue of the random distribution.
func NewFibonacciDistribution(n int) PointDistribution {
	// Golden angle in radians.
	golden := math.Pi * (3 - math.Sqrt(5))

	points := make([]domain.Point, n)
	for i := 0; i < n; i++ {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - z*z)
		theta := golden * float64(i)
		points[i] = cartesianToPoint(r*math.Cos(theta), r*math.Sin(theta), z)
	}
	return PointDistribution{Points: points}
}

// cartesianToPoint converts a unit vector to longitude/latitude degrees.
func cartesianToPoint(x, y, z float64) domain.Point {
	return domain.Point{
		Lon: math.Atan2(y, x) * 180 / math.Pi,
		Lat: math.Asin(max(-1, min(1, z))) * 180 / math.Pi,
	}
}
