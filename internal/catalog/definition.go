package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the raw, unvalidated catalog as it is stored in data files or the database.
type Definition struct {
	Parts         []Part         `yaml:"parts"`
	Assemblies    []AssemblyDef  `yaml:"assemblies"`
	Models        []SinkModel    `yaml:"models"`
	BasinTypes    []BasinType    `yaml:"basinTypes"`
	PegboardTypes []PegboardType `yaml:"pegboardTypes"`
}

// AssemblyDef is an assembly record before its component references are checked.
type AssemblyDef struct {
	ID                     string         `yaml:"id"`
	Name                   string         `yaml:"name"`
	Type                   AssemblyType   `yaml:"type"`
	Status                 Status         `yaml:"status"`
	CategoryCode           string         `yaml:"categoryCode"`
	SubcategoryCode        string         `yaml:"subcategoryCode"`
	RequiresSerialTracking bool           `yaml:"requiresSerialTracking"`
	IsOutsourced           bool           `yaml:"isOutsourced"`
	CompatibleModels       []string       `yaml:"compatibleModels"`
	Components             []ComponentDef `yaml:"components"`
}

// ComponentDef references a child by part id or assembly id. Exactly one must be set.
type ComponentDef struct {
	PartID     string `yaml:"partId,omitempty"`
	AssemblyID string `yaml:"assemblyId,omitempty"`
	Quantity   int    `yaml:"quantity"`
	Notes      string `yaml:"notes,omitempty"`
}

// Decode reads a YAML catalog definition.
func Decode(r io.Reader) (*Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("decode catalog definition: %w", err)
	}
	return &def, nil
}

// LoadFile reads a YAML catalog definition from disk.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
