package taconfig

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML parameter profile over the defaults. KnownFields(true)
// makes a typo in a field name fail loudly instead of silently using the
// default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML bytes over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
