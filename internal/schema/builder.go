// Package schema builds the entity-relationship graph from type descriptors.
//
// Build runs four passes in a fixed order: entity construction, association
// pairing, cycle suppression and target resolution. Pairing decides which
// edges count as outgoing, and only the outgoing edges left after cycle
// suppression get targets and incoming links. The resulting Graph is never
// mutated again.
package schema

import (
	"github.com/seitarof/entity-explorer/internal/meta"
)

type builder struct {
	entities []*Entity
	index    map[string]int
	building map[string]bool
}

// Build constructs the graph for the given types and their super-type
// chains. It never fails: unknown targets and dangling mapped-by names are
// left unresolved.
func Build(types []*meta.TypeDescriptor) *Graph {
	b := &builder{
		index:    make(map[string]int, len(types)),
		building: map[string]bool{},
	}
	for _, t := range types {
		b.addEntity(t)
	}
	b.resolveMappedProperties()
	b.detectCycles()
	b.resolveRelationships()
	return &Graph{entities: b.entities, index: b.index}
}

func (b *builder) lookup(id string) *Entity {
	i, ok := b.index[id]
	if !ok {
		return nil
	}
	return b.entities[i]
}

// addEntity returns the entity for t, creating it and its ancestors first.
// A super-type chain that loops back is cut where it re-enters.
func (b *builder) addEntity(t *meta.TypeDescriptor) *Entity {
	if t == nil || t.Ref.IsZero() {
		return nil
	}
	if e := b.lookup(t.Ref.ID); e != nil {
		return e
	}
	if b.building[t.Ref.ID] {
		return nil
	}
	b.building[t.Ref.ID] = true
	parent := b.addEntity(t.Super)
	delete(b.building, t.Ref.ID)

	e := newEntity(parent, t)
	b.index[t.Ref.ID] = len(b.entities)
	b.entities = append(b.entities, e)
	return e
}

func (b *builder) resolveMappedProperties() {
	for _, e := range b.entities {
		for _, p := range e.properties {
			b.findAndSetMappedProperty(p)
		}
	}
}

// findAndSetMappedProperty pairs p with the field its mapped-by names. A
// target field already paired with another property keeps its first pairing.
func (b *builder) findAndSetMappedProperty(p *Property) {
	if p.MappedBy() == "" {
		return
	}
	target := b.lookup(p.EffectiveType().ID)
	if target == nil {
		return
	}
	mapped := target.Property(p.MappedBy())
	if mapped == nil || mapped == p || mapped.mappingProperty != nil {
		return
	}
	p.setMappedByProperty(mapped)
}

func (b *builder) detectCycles() {
	visited := map[string]bool{}
	onPath := map[string]bool{}
	for _, e := range b.entities {
		b.visit(e, visited, onPath)
	}
}

// visit walks outgoing relationships depth first. It reports true when e is
// already on the current path, in which case the caller's edge closes a
// cycle and is ignored from then on.
func (b *builder) visit(e *Entity, visited, onPath map[string]bool) bool {
	id := e.ID()
	if onPath[id] {
		return true
	}
	if visited[id] {
		return false
	}
	visited[id] = true
	onPath[id] = true
	for _, p := range e.OutgoingRelationships() {
		target := b.lookup(p.EffectiveType().ID)
		if target != nil && b.visit(target, visited, onPath) {
			p.ignored = true
		}
	}
	delete(onPath, id)
	return false
}

func (b *builder) resolveRelationships() {
	for _, e := range b.entities {
		for _, p := range e.OutgoingRelationships() {
			target := b.lookup(p.EffectiveType().ID)
			if target == nil {
				continue
			}
			p.targetEntity = target
			target.incoming = append(target.incoming, p)
		}
	}
}
