// Package loader reads graph datasets from YAML files.
//
// The file format mirrors the raw engine input: an ordered node list and
// an ordered link list. Node order matters — it drives color assignment
// and legend ordering — so the lists are sequences, not maps.
package loader

import (
	"fmt"
	"os"

	"graphlens/internal/domain"

	"gopkg.in/yaml.v3"
)

// DatasetYAML represents the dataset file structure.
type DatasetYAML struct {
	Name        string             `yaml:"name,omitempty"`
	Description string             `yaml:"description,omitempty"`
	Nodes       []domain.NodeDatum `yaml:"nodes"`
	Links       []domain.LinkDatum `yaml:"links,omitempty"`
}

// LoadYAML loads a dataset from a YAML file.
func LoadYAML(path string) (*DatasetYAML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseYAML(data)
}

// ParseYAML parses a dataset from YAML bytes.
func ParseYAML(data []byte) (*DatasetYAML, error) {
	var ds DatasetYAML
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(ds.Nodes) == 0 {
		return nil, fmt.Errorf("dataset has no nodes")
	}
	return &ds, nil
}

// ExportYAML serializes a dataset back to YAML.
func ExportYAML(ds *DatasetYAML) ([]byte, error) {
	return yaml.Marshal(ds)
}
