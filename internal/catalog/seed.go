package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedDocument struct {
	Products    []Product    `yaml:"products"`
	Collections []Collection `yaml:"collections"`
	Regions     []Region     `yaml:"regions"`
}

// Load builds the catalog from the YAML document at path, or from the
// bundled seed when path is empty.
func Load(path string) (*Catalog, error) {
	raw := defaultSeed
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog seed: %w", err)
		}
		raw = data
	}
	return Parse(raw)
}

// Default returns the bundled catalog.
func Default() *Catalog {
	c, err := Parse(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("bundled catalog seed is invalid: %v", err))
	}
	return c
}

// Parse decodes a seed document and validates it.
func Parse(raw []byte) (*Catalog, error) {
	var doc seedDocument
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog seed: %w", err)
	}
	return New(doc.Products, doc.Collections, doc.Regions)
}
