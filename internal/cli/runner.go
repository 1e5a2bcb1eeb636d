package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/seitarof/entity-explorer/internal/diagram"
	"github.com/seitarof/entity-explorer/internal/parser"
	"github.com/seitarof/entity-explorer/internal/schema"
)

// Runner orchestrates the parser, schema and diagram layers.
type Runner interface {
	Run(cfg *Config) error
	Watch(ctx context.Context, cfg *Config) error
}

type runnerImpl struct {
	parser   parser.Parser
	sink     Sink
	debounce time.Duration
}

// NewRunner creates a default runner implementation.
func NewRunner(p parser.Parser, s Sink) Runner {
	return &runnerImpl{
		parser:   p,
		sink:     s,
		debounce: defaultDebounce,
	}
}

// Run executes a single load and render cycle.
func (r *runnerImpl) Run(cfg *Config) error {
	descs, err := r.parser.Load(cfg.Patterns...)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if len(descs) == 0 {
		log.Printf("entity-explorer: warning: no entities found in %q", cfg.Patterns)
	}

	g := schema.Build(descs)

	out, err := r.sink.Open(cfg.OutputFilename())
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := diagram.Render(out, g, diagram.WithIndent(cfg.Indent)); err != nil {
		_ = out.Close()
		return fmt.Errorf("render: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
