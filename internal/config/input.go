package config

import (
	"path/filepath"
	"slices"
	"strings"
)

// InputConfig holds overrides for the inputs matching one key of the
// configuration file. Empty fields inherit.
type InputConfig struct {
	// Schema is "auto", "doccano" or "spacy".
	Schema string `yaml:"schema,omitempty"`

	// ShapeMode is "legacy" or "strict".
	ShapeMode string `yaml:"shapeMode,omitempty"`

	// SkipMalformed controls whether malformed records are skipped.
	SkipMalformed *bool `yaml:"skipMalformed,omitempty"`

	// MaxLineBytes overrides the maximum line size.
	MaxLineBytes int `yaml:"maxLineBytes,omitempty"`
}

// File represents the structure of the configuration file.
type File struct {
	// Inputs maps input paths to their overrides. A key is matched against
	// the input path, then its base name, then as a glob pattern.
	Inputs map[string]InputConfig `yaml:"inputs,omitempty"`

	// Defaults applies to every input unless overridden in Inputs.
	Defaults InputConfig `yaml:"defaults,omitempty"`
}

// GetInputConfig returns the configuration for the input at path,
// merging the best matching entry over the defaults.
func (cf *File) GetInputConfig(path string) InputConfig {
	result := cf.Defaults

	entry, ok := cf.lookup(path)
	if !ok {
		return result
	}

	if entry.Schema != "" {
		result.Schema = entry.Schema
	}
	if entry.ShapeMode != "" {
		result.ShapeMode = entry.ShapeMode
	}
	if entry.SkipMalformed != nil {
		result.SkipMalformed = entry.SkipMalformed
	}
	if entry.MaxLineBytes != 0 {
		result.MaxLineBytes = entry.MaxLineBytes
	}

	return result
}

// lookup finds the entry for path: exact key, base name, then the first
// glob pattern in sorted key order that matches the path or base name.
func (cf *File) lookup(path string) (InputConfig, bool) {
	if entry, ok := cf.Inputs[path]; ok {
		return entry, true
	}

	base := filepath.Base(path)
	if entry, ok := cf.Inputs[base]; ok {
		return entry, true
	}

	keys := make([]string, 0, len(cf.Inputs))
	for k := range cf.Inputs {
		if strings.ContainsAny(k, "*?[") {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, pattern := range keys {
		if ok, _ := filepath.Match(pattern, path); ok {
			return cf.Inputs[pattern], true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return cf.Inputs[pattern], true
		}
	}
	return InputConfig{}, false
}

// Validate checks every schema and shape mode name in the file.
func (cf *File) Validate() error {
	check := func(in InputConfig) error {
		if _, err := parseSchema(in.Schema); err != nil {
			return err
		}
		if _, err := parseShapeMode(in.ShapeMode); err != nil {
			return err
		}
		if in.MaxLineBytes < 0 {
			return ErrInvalidMaxLineBytes
		}
		return nil
	}

	if err := check(cf.Defaults); err != nil {
		return err
	}
	for _, in := range cf.Inputs {
		if err := check(in); err != nil {
			return err
		}
	}
	return nil
}
