package schema

import (
	"slices"

	"github.com/seitarof/entity-explorer/internal/meta"
)

// Entity is the graph node of one modeled type.
type Entity struct {
	desc     *meta.TypeDescriptor
	parent   *Entity
	children []*Entity

	properties []*Property
	byName     map[string]int

	incoming []*Property
}

// newEntity builds the entity and its persistent properties. Fields with an
// exclusion flag are dropped; a repeated name keeps its first position but
// takes the later declaration.
func newEntity(parent *Entity, desc *meta.TypeDescriptor) *Entity {
	e := &Entity{
		desc:       desc,
		parent:     parent,
		properties: make([]*Property, 0, len(desc.Fields)),
		byName:     make(map[string]int, len(desc.Fields)),
	}
	if parent != nil {
		parent.children = append(parent.children, e)
	}
	for _, f := range desc.Fields {
		if !f.Flags.Persistent() {
			continue
		}
		p := newProperty(e, f)
		if i, ok := e.byName[f.Name]; ok {
			e.properties[i] = p
			continue
		}
		e.byName[f.Name] = len(e.properties)
		e.properties = append(e.properties, p)
	}
	return e
}

// ID returns the type identity.
func (e *Entity) ID() string { return e.desc.Ref.ID }

// Name returns the simple type name.
func (e *Entity) Name() string { return e.desc.Ref.Name }

// Package returns the namespace of the type.
func (e *Entity) Package() string { return e.desc.Package() }

// Descriptor returns the type descriptor the entity was built from.
func (e *Entity) Descriptor() *meta.TypeDescriptor { return e.desc }

// Parent returns the entity of the super-type, or nil.
func (e *Entity) Parent() *Entity { return e.parent }

// IsChild reports whether the entity has a parent.
func (e *Entity) IsChild() bool { return e.parent != nil }

// Children returns the entities whose parent is e.
func (e *Entity) Children() []*Entity { return slices.Clone(e.children) }

// Properties returns the properties in declaration order.
func (e *Entity) Properties() []*Property { return slices.Clone(e.properties) }

// Property returns the property with the given field name, or nil.
func (e *Entity) Property(name string) *Property {
	i, ok := e.byName[name]
	if !ok {
		return nil
	}
	return e.properties[i]
}

// OutgoingRelationships returns the outgoing relationship properties in
// declaration order.
func (e *Entity) OutgoingRelationships() []*Property {
	var out []*Property
	for _, p := range e.properties {
		if p.IsOutgoingRelationship() {
			out = append(out, p)
		}
	}
	return out
}

// IncomingRelationships returns the outgoing relationships of other
// properties that target e.
func (e *Entity) IncomingRelationships() []*Property { return slices.Clone(e.incoming) }

// IsSingleSubEntity reports whether exactly one relationship targets e.
func (e *Entity) IsSingleSubEntity() bool { return len(e.incoming) == 1 }

// Tags returns the type-level tags in lexicographic order.
func (e *Entity) Tags() []string {
	return slices.Sorted(slices.Values(e.desc.Tags))
}

// SubgraphSize counts the distinct types reachable from e through outgoing
// relationship targets and parents, e included.
func (e *Entity) SubgraphSize() int {
	seen := map[string]struct{}{}
	queue := []*Entity{e}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, ok := seen[cur.ID()]; ok {
			continue
		}
		seen[cur.ID()] = struct{}{}
		for _, p := range cur.OutgoingRelationships() {
			if p.targetEntity != nil {
				queue = append(queue, p.targetEntity)
			}
		}
		if cur.parent != nil {
			queue = append(queue, cur.parent)
		}
	}
	return len(seen)
}

func (e *Entity) String() string {
	s := e.Name()
	if e.parent != nil {
		s += ": " + e.parent.Name()
	}
	return s + tagSuffix(e.Tags())
}
