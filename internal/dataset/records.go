package dataset

import "github.com/couchcryptid/plate-kinematics-etl/internal/domain"

// Feature is one geometry read from an OGR/GMT ASCII file together with its
// attribute fields. Magnetic picks carry a single point each; seafloor
// fabric features are polylines.
type Feature struct {
	Fields map[string]string
	Points []domain.Point
}

// PolygonFeature is one shapefile polygon with its attribute fields. Rings
// follow shapefile part order (outer ring first).
type PolygonFeature struct {
	Fields map[string]string
	Rings  [][]domain.Point
}

// SeamountAge is one row of the Pacific seamount age compilation.
type SeamountAge struct {
	Lon               float64
	Lat               float64
	AverageAgeMa      float64
	AverageAgeErrorMa float64
	Tag               string
	SeamountName      string
	SeamountChain     string
}

// CensusSeamount is one row of the Kim & Wessel seamount census.
type CensusSeamount struct {
	Lon      float64
	Lat      float64
	Azimuth  float64 // basal ellipse orientation, degrees
	Major    float64 // basal ellipse major axis, km
	Minor    float64 // basal ellipse minor axis, km
	Height   float64 // m
	FAA      float64 // free-air anomaly, mGal
	VGG      float64 // vertical gravity gradient, Eotvos
	Depth    float64 // m
	CrustAge float64 // Ma
	ID       string
}

// SeamountAgeColumns is the documented column order of the Pacific seamount
// age table.
var SeamountAgeColumns = []string{
	"Long", "Lat", "Average_Age_Ma", "Average_Age_Error_Ma", "Tag", "SeamountName", "SeamountChain",
}

// CensusColumns is the documented column order of the seamount census table.
var CensusColumns = []string{
	"Long", "Lat", "Azimuth", "Major", "Minor", "Height", "FAA", "VGG", "Depth", "CrustAge", "ID",
}
