package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seitarof/entity-explorer/internal/parser"
	"github.com/seitarof/entity-explorer/internal/tags"
)

// DefaultPattern is the package pattern used when none is given.
const DefaultPattern = "./..."

// Config stores CLI options for a single run.
type Config struct {
	Patterns       []string
	ConfigFile     string
	Output         string
	TagKeys        []string
	ExcludeOptions []string
	MarkerKey      string
	RelationKey    string
	InferTables    bool
	Indent         string
	Watch          bool
	ShowVersion    bool
}

// OutputFilename returns the output file path; empty means stdout.
func (c *Config) OutputFilename() string {
	return c.Output
}

// ParserOptions returns the parser options described by the config.
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithTagRenderer(tags.NewRenderer(c.TagKeys, c.ExcludeOptions)),
		parser.WithMarkerKey(c.MarkerKey),
		parser.WithRelationKey(c.RelationKey),
		parser.WithInferTables(c.InferTables),
	}
}

// FileConfig is the YAML configuration file layout.
type FileConfig struct {
	Patterns       StringList `yaml:"patterns,omitempty"`
	Output         string     `yaml:"output,omitempty"`
	TagKeys        StringList `yaml:"tag_keys,omitempty"`
	ExcludeOptions StringList `yaml:"exclude_options,omitempty"`
	MarkerKey      string     `yaml:"marker_key,omitempty"`
	RelationKey    string     `yaml:"relation_key,omitempty"`
	InferTables    *bool      `yaml:"infer_tables,omitempty"`
	Indent         string     `yaml:"indent,omitempty"`
}

// StringList is a YAML value that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// LoadConfigFile reads a YAML configuration file. Unknown keys are errors.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// applyTo copies file values into cfg for every flag not set explicitly.
func (fc *FileConfig) applyTo(cfg *Config, changed func(name string) bool) {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = fc.Patterns
	}
	if !changed("output") && fc.Output != "" {
		cfg.Output = fc.Output
	}
	if !changed("tag-keys") && len(fc.TagKeys) > 0 {
		cfg.TagKeys = fc.TagKeys
	}
	if !changed("exclude-options") && len(fc.ExcludeOptions) > 0 {
		cfg.ExcludeOptions = fc.ExcludeOptions
	}
	if !changed("marker-key") && fc.MarkerKey != "" {
		cfg.MarkerKey = fc.MarkerKey
	}
	if !changed("relation-key") && fc.RelationKey != "" {
		cfg.RelationKey = fc.RelationKey
	}
	if !changed("infer-tables") && fc.InferTables != nil {
		cfg.InferTables = *fc.InferTables
	}
	if !changed("indent") && fc.Indent != "" {
		cfg.Indent = fc.Indent
	}
}
