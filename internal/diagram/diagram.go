// Package diagram renders a resolved schema graph as an indented text tree.
//
// Each root entity prints its header, the relationships pointing at it, its
// outgoing relationships and then its remaining fields. A relationship target
// with exactly one incoming edge is expanded inline under that edge; any
// other target collapses to a placeholder, which together with cycle
// suppression in the graph bounds the walk.
package diagram

import (
	"bufio"
	"io"
	"iter"

	"github.com/seitarof/entity-explorer/internal/schema"
)

const (
	defaultIndent = "    "
	entityMarker  = "## "
	childMarker   = `\\ `
	placeholder   = "..."
)

// Option configures the renderer.
type Option func(*renderer)

// WithIndent sets the indentation unit. An empty unit keeps the default.
func WithIndent(unit string) Option {
	return func(r *renderer) {
		if unit != "" {
			r.indent = unit
		}
	}
}

type renderer struct {
	indent string
}

func newRenderer(opts []Option) *renderer {
	r := &renderer{indent: defaultIndent}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lines returns the diagram of g as a lazy sequence of lines without line
// terminators.
func Lines(g *schema.Graph, opts ...Option) iter.Seq[string] {
	r := newRenderer(opts)
	return func(yield func(string) bool) {
		for _, root := range g.Roots() {
			if !r.entity(yield, "", root) {
				return
			}
		}
	}
}

// Render writes the diagram of g to w, one line per entry.
func Render(w io.Writer, g *schema.Graph, opts ...Option) error {
	bw := bufio.NewWriter(w)
	for line := range Lines(g, opts...) {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (r *renderer) entity(yield func(string) bool, indent string, e *schema.Entity) bool {
	marker := entityMarker
	if e.IsChild() {
		marker = childMarker
	}
	if !yield(indent + marker + e.String()) {
		return false
	}

	inner := indent + r.indent
	if !e.IsSingleSubEntity() {
		for _, in := range e.IncomingRelationships() {
			if !yield(inner + "...[" + in.Name() + "]... " + in.Entity().Name()) {
				return false
			}
		}
	}

	for _, out := range e.OutgoingRelationships() {
		if !yield(inner + out.String()) {
			return false
		}
		target := out.TargetEntity()
		if target != nil && target.IsSingleSubEntity() {
			if !r.entity(yield, inner+r.indent, target) {
				return false
			}
			continue
		}
		if !yield(inner + r.indent + placeholder) {
			return false
		}
	}

	for _, p := range e.Properties() {
		if p.IsOutgoingRelationship() {
			continue
		}
		if !yield(inner + p.String()) {
			return false
		}
	}

	for _, child := range e.Children() {
		if !r.entity(yield, indent, child) {
			return false
		}
	}
	return true
}
