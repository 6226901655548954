package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/couchcryptid/plate-kinematics-etl/internal/fetch"
)

// Sentinel errors for invalid dataset arguments.
var (
	ErrUnknownDataset     = errors.New("unknown dataset")
	ErrUnknownFeatureType = errors.New("unknown feature type")
	ErrUnknownCatalogue   = errors.New("unknown catalogue")
)

// Dataset names accepted by Lookup and the CLI.
const (
	NameMagneticPicks         = "magnetic-picks"
	NameSeafloorFabric        = "seafloor-fabric"
	NamePacificSeamountAges   = "pacific-seamount-ages"
	NameSeamountCensus        = "seamount-census"
	NameLargeIgneousProvinces = "large-igneous-provinces"
)

// specs pins the published URL and SHA-256 digest of every dataset file.
var specs = map[string]fetch.Spec{
	NameMagneticPicks: {
		URL:    "http://www.soest.hawaii.edu/PT/GSFML/ML/DATA/GSFML.global.picks.gmt",
		SHA256: "0895b76597f600a6c6184a7bec0edc0df5ca9234255f3f7bac0fe944317caf65",
	},
	NameSeafloorFabric: {
		URL:    "http://www.soest.hawaii.edu/PT/GSFML/SF/DATA/GSFML_SF.tbz",
		SHA256: "e27a73dc544611685144b4587d17f03bde24438ee4646963f10761f8ec2e6036",
	},
	NamePacificSeamountAges: {
		URL:    "https://www.earthbyte.org/webdav/gmt_mirror/gmt/data/cache/Pacific_Ages.txt",
		SHA256: "8c5e57b478c2c2f5581527c7aea5ef282e976c36c5e00452210885a92e635021",
	},
	NameSeamountCensus: {
		URL:    "http://www.soest.hawaii.edu/PT/SMTS/kwsmts/KWSMTSv01.txt",
		SHA256: "91c93302c44463a424835aa4051b7b2a1ea04d6675d928ca8405b231ae7cea9a",
	},
	NameLargeIgneousProvinces: {
		URL:    "https://www.earthbyte.org/webdav/ftp/earthbyte/GPlates/SampleData_GPlates2.2/Individual/FeatureCollections/LargeIgneousProvinces_VolcanicProvinces.zip",
		SHA256: "8f86ab86a12761f5534beaaeaddbed5b4e3e6d3d9b52b0c87ee9b15af2a797cd",
	},
}

// fabricFiles maps seafloor-fabric feature-type codes to files inside the
// GSFML_SF archive. FZ variants with author suffixes are alternative
// fracture-zone interpretations.
var fabricFiles = map[string]string{
	"FZ":    "GSFML_SF_FZ_KM.gmt",    // fracture zones
	"FZLC":  "GSFML_SF_FZLC_KM.gmt",  // fracture zones, less certainty
	"UNCV":  "GSFML_SF_UNCV_KM.gmt",  // unclassified V-anomalies
	"DZ":    "GSFML_SF_DZ_KM.gmt",    // discordant zones
	"PR":    "GSFML_SF_PR_KM.gmt",    // propagating ridges
	"VANOM": "GSFML_SF_VANOM_KM.gmt", // V-shaped structures
	"ER":    "GSFML_SF_ER_KM.gmt",    // extinct ridges
	"FZ_JW": "GSFML_SF_FZ_JW.gmt",    // fracture zones (Whittaker)
	"FZ_RM": "GSFML_SF_FZ_RM.gmt",    // fracture zones (Myhill)
	"FZ_MC": "GSFML_SF_FZ_MC.gmt",    // fracture zones (Chandler)
}

// lipFiles maps large-igneous-province catalogue names to the shapefile
// inside the GPlates sample-data zip.
var lipFiles = map[string]string{
	"Whittaker": "Whittaker_etal_2015_LIPs.shp",
	"Johansson": "Johansson_etal_2018_VolcanicProvinces_v2.shp",
}

// Lookup returns the fetch spec for a registered dataset name.
func Lookup(name string) (fetch.Spec, error) {
	spec, ok := specs[name]
	if !ok {
		return fetch.Spec{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return spec, nil
}

// Names lists all registered dataset names, sorted.
func Names() []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FabricCodes lists all seafloor-fabric feature-type codes, sorted.
func FabricCodes() []string {
	codes := make([]string, 0, len(fabricFiles))
	for code := range fabricFiles {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Store loads registered datasets through a fetch cache.
type Store struct {
	fetcher *fetch.Fetcher
}

// NewStore creates a Store backed by the given fetcher.
func NewStore(fetcher *fetch.Fetcher) *Store {
	return &Store{fetcher: fetcher}
}

// MagneticPicksPath fetches the GSFML magnetic pick file and returns its
// cached path.
func (s *Store) MagneticPicksPath(ctx context.Context) (string, error) {
	return s.fetcher.Retrieve(ctx, specs[NameMagneticPicks])
}

// MagneticPicks fetches and parses the GSFML global magnetic lineation picks.
func (s *Store) MagneticPicks(ctx context.Context) ([]Feature, error) {
	path, err := s.MagneticPicksPath(ctx)
	if err != nil {
		return nil, err
	}
	return parseGMTFile(path)
}

// SeafloorFabricPath fetches the GSFML seafloor-fabric archive and returns
// the cached path of the file for the given feature-type code.
func (s *Store) SeafloorFabricPath(ctx context.Context, code string) (string, error) {
	fileName, ok := fabricFiles[code]
	if !ok {
		return "", fmt.Errorf("%w: %q (valid codes: %v)", ErrUnknownFeatureType, code, FabricCodes())
	}

	archive, err := s.fetcher.Retrieve(ctx, specs[NameSeafloorFabric])
	if err != nil {
		return "", err
	}
	members, err := fetch.ExtractArchive(archive)
	if err != nil {
		return "", err
	}
	return fetch.Member(members, fileName)
}

// SeafloorFabric fetches and parses one seafloor-fabric feature class.
func (s *Store) SeafloorFabric(ctx context.Context, code string) ([]Feature, error) {
	path, err := s.SeafloorFabricPath(ctx, code)
	if err != nil {
		return nil, err
	}
	return parseGMTFile(path)
}

// PacificSeamountAgesPath fetches the Pacific seamount age table and returns
// its cached path.
func (s *Store) PacificSeamountAgesPath(ctx context.Context) (string, error) {
	return s.fetcher.Retrieve(ctx, specs[NamePacificSeamountAges])
}

// PacificSeamountAges fetches and parses the Pacific seamount age compilation.
func (s *Store) PacificSeamountAges(ctx context.Context) ([]SeamountAge, error) {
	path, err := s.PacificSeamountAgesPath(ctx)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseSeamountAges(file)
}

// SeamountCensusPath fetches the Kim & Wessel census and returns its cached path.
func (s *Store) SeamountCensusPath(ctx context.Context) (string, error) {
	return s.fetcher.Retrieve(ctx, specs[NameSeamountCensus])
}

// SeamountCensus fetches and parses the Kim & Wessel seamount census.
func (s *Store) SeamountCensus(ctx context.Context) ([]CensusSeamount, error) {
	path, err := s.SeamountCensusPath(ctx)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseSeamountCensus(file)
}

// LargeIgneousProvincesPath fetches the LIP sample-data zip and returns the
// cached path of the shapefile for the given catalogue.
func (s *Store) LargeIgneousProvincesPath(ctx context.Context, catalogue string) (string, error) {
	fileName, ok := lipFiles[catalogue]
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: Whittaker, Johansson)", ErrUnknownCatalogue, catalogue)
	}

	archive, err := s.fetcher.Retrieve(ctx, specs[NameLargeIgneousProvinces])
	if err != nil {
		return "", err
	}
	members, err := fetch.ExtractArchive(archive)
	if err != nil {
		return "", err
	}
	return fetch.Member(members, fileName)
}

// LargeIgneousProvinces fetches and parses one LIP polygon catalogue.
func (s *Store) LargeIgneousProvinces(ctx context.Context, catalogue string) ([]PolygonFeature, error) {
	path, err := s.LargeIgneousProvincesPath(ctx, catalogue)
	if err != nil {
		return nil, err
	}
	return readShapefilePolygons(path)
}

func parseGMTFile(path string) ([]Feature, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseGMT(file)
}
