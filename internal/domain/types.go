package domain

// Point is a WGS-84 longitude/latitude pair in decimal degrees.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// ResolvedTopology is one closed plate polygon resolved by the engine at a
// reconstruction time.
type ResolvedTopology struct {
	PlateID     int     `json:"plate_id"`
	AreaKm2     float64 `json:"area_km2"`
	PerimeterKm float64 `json:"perimeter_km"`
	Centroid    Point   `json:"centroid"`
	Boundary    []Point `json:"boundary,omitempty"`
}

// ConvergenceSample is one sample point along a subduction zone with the
// kinematic statistics computed by the engine.
type ConvergenceSample struct {
	Lon                  float64 `json:"lon"`
	Lat                  float64 `json:"lat"`
	ConvergenceRate      float64 `json:"conv_rate"`  // cm/yr, orthogonal component positive toward trench
	ConvergenceObliquity float64 `json:"conv_obliq"` // degrees
	MigrationRate        float64 `json:"migr_rate"`  // trench migration, cm/yr
	MigrationObliquity   float64 `json:"migr_obliq"` // degrees
	ArcLengthDeg         float64 `json:"arc_length"` // degrees of arc represented by this sample
	ArcAzimuth           float64 `json:"arc_azimuth"`
	SubductingPlate      int     `json:"subducting_plate"`
	OverridingPlate      int     `json:"overriding_plate"`
}

// VelocitySample is the engine-computed velocity at one domain point.
// East/North are in cm/yr; a zero sample with PlateID 0 means the point fell
// outside every resolved plate polygon.
type VelocitySample struct {
	East    float64 `json:"east"`
	North   float64 `json:"north"`
	PlateID int     `json:"plate_id"`
}

// OutputRow is a serialized table row destined for the sink topic.
type OutputRow struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
