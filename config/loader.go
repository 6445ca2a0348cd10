package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSearchConfig decodes the YAML file at path over a copy of base. Keys
// missing from the file keep their value from base.
func LoadSearchConfig(path string, base SearchConfig) (SearchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SearchConfig{}, fmt.Errorf("config: read search config %q: %w", path, err)
	}
	return ParseSearchConfig(data, base)
}

// ParseSearchConfig decodes YAML bytes over a copy of base.
func ParseSearchConfig(data []byte, base SearchConfig) (SearchConfig, error) {
	cfg := base.Clone()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return SearchConfig{}, fmt.Errorf("config: decode search config: %w", err)
	}
	return cfg, nil
}
