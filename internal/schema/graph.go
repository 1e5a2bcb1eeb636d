package schema

import (
	"cmp"
	"slices"
)

// Graph is the resolved, read-only entity graph.
type Graph struct {
	entities []*Entity
	index    map[string]int
}

// Entities returns every entity in discovery order. Ancestors precede the
// first entity that needed them.
func (g *Graph) Entities() []*Entity { return slices.Clone(g.entities) }

// Len returns the number of entities.
func (g *Graph) Len() int { return len(g.entities) }

// Entity returns the entity with the given type identity, or nil.
func (g *Graph) Entity(id string) *Entity {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.entities[i]
}

// Roots returns the entities a diagram starts from: top-level entities that
// are not the single target of one relationship, largest subgraph first.
// Ties keep discovery order.
func (g *Graph) Roots() []*Entity {
	type ranked struct {
		entity *Entity
		size   int
	}
	var rs []ranked
	for _, e := range g.entities {
		if e.IsChild() || e.IsSingleSubEntity() {
			continue
		}
		rs = append(rs, ranked{entity: e, size: e.SubgraphSize()})
	}
	slices.SortStableFunc(rs, func(a, b ranked) int {
		return cmp.Compare(b.size, a.size)
	})
	roots := make([]*Entity, 0, len(rs))
	for _, r := range rs {
		roots = append(roots, r.entity)
	}
	return roots
}
