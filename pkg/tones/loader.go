package tones

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the layout of a TONES_FILE override
type fileFormat struct {
	DefaultTone string `yaml:"default_tone"`
	Tones       []Tone `yaml:"tones"`
}

// LoadFile builds a registry from a YAML file. A missing default_tone keeps
// DefaultToneID.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tones file: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML bytes
func Parse(data []byte) (*Registry, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tones file: %w", err)
	}
	if f.DefaultTone == "" {
		f.DefaultTone = DefaultToneID
	}
	return NewRegistry(f.Tones, f.DefaultTone)
}

// Load returns the registry from path, or the built-in one when path is empty
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
