package dataset

import (
	"fmt"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

// readShapefilePolygons loads polygon features (with attributes) from an
// ESRI shapefile. The sibling .dbf/.shx files must sit next to the .shp,
// which archive extraction preserves.
func readShapefilePolygons(path string) ([]PolygonFeature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("shapefile: open %s: %w", path, err)
	}
	defer reader.Close()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(string(f.Name[:]), "\x00")
	}

	var features []PolygonFeature
	for reader.Next() {
		row, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		attrs := make(map[string]string, len(names))
		for j, name := range names {
			attrs[name] = reader.ReadAttribute(row, j)
		}

		features = append(features, PolygonFeature{
			Fields: attrs,
			Rings:  polygonRings(poly),
		})
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("shapefile: read %s: %w", path, err)
	}
	return features, nil
}

// polygonRings splits a shapefile polygon's flat point list into its parts.
func polygonRings(poly *shp.Polygon) [][]domain.Point {
	rings := make([][]domain.Point, 0, len(poly.Parts))
	for i, start := range poly.Parts {
		end := int32(len(poly.Points))
		if i+1 < len(poly.Parts) {
			end = poly.Parts[i+1]
		}
		ring := make([]domain.Point, 0, end-start)
		for _, pt := range poly.Points[start:end] {
			ring = append(ring, domain.Point{Lon: pt.X, Lat: pt.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}
