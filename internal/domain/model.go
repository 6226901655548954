package domain

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model describes a reconstruction model: the rotation files and polygon
// feature collections the engine should use, plus the tag under which the
// engine deployment knows the model.
type Model struct {
	Name            string   `yaml:"name"`
	EngineTag       string   `yaml:"engine_tag"`
	RotationFiles   []string `yaml:"rotation_files"`
	StaticPolygons  []string `yaml:"static_polygons"`
	DynamicPolygons []string `yaml:"dynamic_polygons"`
	AnchorPlateID   int      `yaml:"anchor_plate_id"`
}

// LoadModel reads a model manifest from a YAML file.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Model{}, fmt.Errorf("read model manifest: %w", err)
	}
	return ParseModel(data)
}

// ParseModel decodes and validates a YAML model manifest.
func ParseModel(data []byte) (Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Model{}, fmt.Errorf("parse model manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Validate checks that the manifest names a model the engine can resolve.
func (m Model) Validate() error {
	if m.Name == "" {
		return errors.New("model manifest: name is required")
	}
	if m.EngineTag == "" {
		return errors.New("model manifest: engine_tag is required")
	}
	return nil
}

// AddRotationFile appends a rotation file to the model.
func (m *Model) AddRotationFile(path string) { m.RotationFiles = append(m.RotationFiles, path) }

// AddStaticPolygons appends a static polygon feature collection.
func (m *Model) AddStaticPolygons(path string) { m.StaticPolygons = append(m.StaticPolygons, path) }

// AddDynamicPolygons appends a topological (dynamic) polygon feature collection.
func (m *Model) AddDynamicPolygons(path string) { m.DynamicPolygons = append(m.DynamicPolygons, path) }
