package routes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* Loader manages source configuration from sources.yaml
 * Sources keep their declaration order: deprecated aliases are tried in the
 * order the file lists them.
 */

// Config represents the structure of sources.yaml
type Config struct {
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig represents a single source in the YAML file
type SourceConfig struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Prefix     string `yaml:"prefix"`
	Deprecated bool   `yaml:"deprecated"`
}

// Loader holds the loaded sources
type Loader struct {
	sources []*Source
	byName  map[string]*Source
}

// NewLoader creates a new source loader
func NewLoader() *Loader {
	return &Loader{
		byName: make(map[string]*Source),
	}
}

// Load reads and parses the sources.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading sources file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing sources YAML: %w", err)
	}

	for _, sc := range config.Sources {
		source := &Source{
			Name:       sc.Name,
			Type:       NewSourceType(sc.Type),
			Prefix:     sc.Prefix,
			Deprecated: sc.Deprecated,
		}

		if err := source.Validate(); err != nil {
			return fmt.Errorf("validating source: %w", err)
		}
		if _, exists := l.byName[source.Name]; exists {
			return fmt.Errorf("duplicate source name: %s", source.Name)
		}

		l.sources = append(l.sources, source)
		l.byName[source.Name] = source
	}

	return nil
}

// Get retrieves a source by its name
func (l *Loader) Get(name string) (*Source, error) {
	source, exists := l.byName[name]
	if !exists {
		return nil, fmt.Errorf("source not found: %s", name)
	}
	return source, nil
}

// List returns all loaded sources in declaration order
func (l *Loader) List() []*Source {
	return l.sources
}

// Exists checks if a source name exists
func (l *Loader) Exists(name string) bool {
	_, exists := l.byName[name]
	return exists
}
