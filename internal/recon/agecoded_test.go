package recon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agedPoints(t *testing.T, ages []float64) *AgeCodedPoints {
	t.Helper()
	lons := make([]float64, len(ages))
	lats := make([]float64, len(ages))
	for i := range ages {
		lons[i] = float64(i) * 10
		lats[i] = float64(i)
	}
	points, err := NewAgeCodedPoints(lons, lats, ages)
	require.NoError(t, err)
	return points
}

func TestNewAgeCodedPoints_Validation(t *testing.T) {
	_, err := NewAgeCodedPoints([]float64{0, 1}, []float64{0}, []float64{5, 6})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched lengths")

	_, err = NewAgeCodedPoints([]float64{0}, []float64{95}, []float64{5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")

	_, err = NewAgeCodedPoints([]float64{0}, []float64{0}, []float64{-1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative age")
}

func TestAgeCodedPoints_ReconstructBeforeAssign(t *testing.T) {
	points := agedPoints(t, []float64{10, 20})

	_, err := points.ReconstructTo(context.Background(), 10, 0)
	require.ErrorIs(t, err, ErrPlatesNotAssigned)

	_, err = points.ReconstructToAppearance(context.Background(), BirthTime, 0)
	require.ErrorIs(t, err, ErrPlatesNotAssigned)
}

func TestAgeCodedPoints_AssignPlates(t *testing.T) {
	points := agedPoints(t, []float64{10, 20, 30})
	engine := &fakeEngine{plateIDs: []int{901, 0, 801}}

	require.NoError(t, points.AssignPlates(context.Background(), engine, testModel()))
	assert.Equal(t, []int{901, 0, 801}, points.PlateIDs())
}

func TestAgeCodedPoints_ReconstructTo_SkipsUnpartitioned(t *testing.T) {
	points := agedPoints(t, []float64{10, 20, 30})
	engine := &fakeEngine{plateIDs: []int{901, 0, 801}}
	require.NoError(t, points.AssignPlates(context.Background(), engine, testModel()))

	result, err := points.ReconstructTo(context.Background(), 15, 0)
	require.NoError(t, err)

	// The middle point (plate ID 0) is dropped.
	require.Len(t, result, 2)
	assert.Equal(t, 901, result[0].PlateID)
	assert.Equal(t, 801, result[1].PlateID)
	assert.Equal(t, 15.0, result[0].TimeMa)

	// The fake engine shifts points one degree west.
	assert.Equal(t, -1.0, result[0].Lon)
	assert.Equal(t, 19.0, result[1].Lon)

	require.Len(t, engine.reconstructQueries, 1)
	assert.Equal(t, []int{901, 801}, engine.reconstructQueries[0].PlateIDs)
}

func TestAgeCodedPoints_ReconstructTo_AllUnpartitioned(t *testing.T) {
	points := agedPoints(t, []float64{10})
	engine := &fakeEngine{plateIDs: []int{0}}
	require.NoError(t, points.AssignPlates(context.Background(), engine, testModel()))

	result, err := points.ReconstructTo(context.Background(), 15, 0)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Empty(t, engine.reconstructQueries)
}

func TestAgeCodedPoints_ReconstructToAppearance_GroupsNearbyAges(t *testing.T) {
	// Ages 27.61 and 27.64 share a 0.1 Myr bucket; 75.9 is its own group.
	points := agedPoints(t, []float64{27.61, 27.64, 75.9})
	engine := &fakeEngine{plateIDs: []int{901, 901, 801}}
	require.NoError(t, points.AssignPlates(context.Background(), engine, testModel()))

	result, err := points.ReconstructToAppearance(context.Background(), BirthTime, 0)
	require.NoError(t, err)
	require.Len(t, result, 3)

	// One engine call per group, oldest first.
	require.Len(t, engine.reconstructQueries, 2)
	assert.InDelta(t, 75.9, engine.reconstructQueries[0].TimeMa, 1e-9)
	assert.InDelta(t, 27.6, engine.reconstructQueries[1].TimeMa, 1e-9)
	assert.Len(t, engine.reconstructQueries[1].Points, 2)

	assert.InDelta(t, 75.9, result[0].TimeMa, 1e-9)
	assert.InDelta(t, 27.6, result[1].TimeMa, 1e-9)
	assert.InDelta(t, 27.6, result[2].TimeMa, 1e-9)
}

func TestAgeCodedPoints_ReconstructToAppearance_MidTime(t *testing.T) {
	points := agedPoints(t, []float64{50})
	engine := &fakeEngine{plateIDs: []int{901}}
	require.NoError(t, points.AssignPlates(context.Background(), engine, testModel()))

	result, err := points.ReconstructToAppearance(context.Background(), MidTime, 0)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.InDelta(t, 25.0, result[0].TimeMa, 1e-9)
}

func TestAgeCodedPoints_ReconstructToAppearance_SkipsUnpartitioned(t *testing.T) {
	points := agedPoints(t, []float64{10, 20})
	engine := &fakeEngine{plateIDs: []int{0, 901}}
	require.NoError(t, points.AssignPlates(context.Background(), engine, testModel()))

	result, err := points.ReconstructToAppearance(context.Background(), BirthTime, 0)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 901, result[0].PlateID)
}

func TestAgeCodedPoints_ReconstructToAppearance_UnknownMode(t *testing.T) {
	points := agedPoints(t, []float64{10})
	engine := &fakeEngine{plateIDs: []int{901}}
	require.NoError(t, points.AssignPlates(context.Background(), engine, testModel()))

	_, err := points.ReconstructToAppearance(context.Background(), AppearanceMode("peak"), 0)
	require.ErrorIs(t, err, ErrUnknownAppearanceMode)
}
