package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ParseArgs parses command line arguments into Config. Values from a
// --config file fill in every option not given on the command line.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	var tagKeysRaw, excludeRaw string

	fs := pflag.NewFlagSet("entity-explorer", pflag.ContinueOnError)
	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&cfg.Output, "output", "o", "", "output file (default stdout)")
	fs.StringVar(&tagKeysRaw, "tag-keys", "", "comma-separated struct tag keys to render")
	fs.StringVar(&excludeRaw, "exclude-options", "", "comma-separated tag options left out of the rendering")
	fs.StringVar(&cfg.MarkerKey, "marker-key", "", "tag key of the entity marker field")
	fs.StringVar(&cfg.RelationKey, "relation-key", "", "tag key declaring associations")
	fs.BoolVar(&cfg.InferTables, "infer-tables", false, "show inferred table names for entities without one")
	fs.StringVar(&cfg.Indent, "indent", "", "indentation unit (default four spaces)")
	fs.BoolVarP(&cfg.Watch, "watch", "w", false, "re-render when source files change")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	cfg.TagKeys = splitCommaList(tagKeysRaw)
	cfg.ExcludeOptions = splitCommaList(excludeRaw)
	cfg.Patterns = fs.Args()

	if strings.TrimSpace(cfg.ConfigFile) != "" {
		fc, err := LoadConfigFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		fc.applyTo(cfg, fs.Changed)
	}

	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{DefaultPattern}
	}
	if strings.TrimSpace(cfg.Indent) != "" {
		return nil, fmt.Errorf("--indent must contain only whitespace, got %q", cfg.Indent)
	}
	return cfg, nil
}

func splitCommaList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
