package dataset

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/plate-kinematics-etl/internal/fetch"
	"github.com/couchcryptid/plate-kinematics-etl/internal/observability"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	fetcher := fetch.New(t.TempDir(), time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting())
	return NewStore(fetcher)
}

func TestLookup(t *testing.T) {
	spec, err := Lookup(NameMagneticPicks)
	require.NoError(t, err)
	assert.Contains(t, spec.URL, "GSFML.global.picks.gmt")
	assert.Len(t, spec.SHA256, 64)
}

func TestLookup_UnknownDataset(t *testing.T) {
	_, err := Lookup("not-a-dataset")
	require.ErrorIs(t, err, ErrUnknownDataset)
}

func TestNames_Sorted(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{
		NameLargeIgneousProvinces,
		NameMagneticPicks,
		NamePacificSeamountAges,
		NameSeafloorFabric,
		NameSeamountCensus,
	}, names)
}

func TestFabricCodes(t *testing.T) {
	codes := FabricCodes()
	assert.Len(t, codes, 10)
	assert.Contains(t, codes, "FZ")
	assert.Contains(t, codes, "UNCV")
	assert.Contains(t, codes, "FZ_JW")
}

func TestStore_SeafloorFabric_UnknownCode(t *testing.T) {
	s := testStore(t)
	_, err := s.SeafloorFabricPath(context.Background(), "BOGUS")
	require.ErrorIs(t, err, ErrUnknownFeatureType)
	assert.Contains(t, err.Error(), "valid codes")
}

func TestStore_LargeIgneousProvinces_UnknownCatalogue(t *testing.T) {
	s := testStore(t)
	_, err := s.LargeIgneousProvincesPath(context.Background(), "Smith")
	require.ErrorIs(t, err, ErrUnknownCatalogue)
}
