package record

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts both the English keys and the Portuguese keys
// written by the harvesting scripts (identificadores, titulo, tipo).
// Every other metadata field is ignored.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Identifiers     []string `yaml:"identifiers"`
		Identificadores []string `yaml:"identificadores"`
		Title           *string  `yaml:"title"`
		Titulo          *string  `yaml:"titulo"`
		Type            *string  `yaml:"type"`
		Tipo            *string  `yaml:"tipo"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	r.Identifiers = raw.Identifiers
	if len(r.Identifiers) == 0 {
		r.Identifiers = raw.Identificadores
	}
	r.Title = raw.Title
	if r.Title == nil {
		r.Title = raw.Titulo
	}
	r.Type = raw.Type
	if r.Type == nil {
		r.Type = raw.Tipo
	}
	return nil
}

// Decode parses one YAML record document. path is stored as SourcePath.
func Decode(data []byte, path string) (Record, error) {
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("decode record %s: %w", path, err)
	}
	r.SourcePath = path
	return r, nil
}

// LoadFile reads and decodes a YAML record file.
func LoadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read record: %w", err)
	}
	return Decode(data, path)
}
