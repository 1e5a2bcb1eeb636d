package schema

import (
	"slices"
	"strings"

	"github.com/seitarof/entity-explorer/internal/meta"
)

// Property is one persistent field of an Entity together with its resolved
// association state.
type Property struct {
	entity *Entity
	desc   meta.FieldDescriptor

	mappedByProperty *Property
	mappingProperty  *Property
	targetEntity     *Entity
	ignored          bool
}

func newProperty(entity *Entity, desc meta.FieldDescriptor) *Property {
	return &Property{entity: entity, desc: desc}
}

// Entity returns the owning entity.
func (p *Property) Entity() *Entity { return p.entity }

// Descriptor returns the field descriptor the property was built from.
func (p *Property) Descriptor() meta.FieldDescriptor { return p.desc }

// Name returns the field name.
func (p *Property) Name() string { return p.desc.Name }

// IsCollection reports whether the field is an array, a collection or a map.
func (p *Property) IsCollection() bool { return p.desc.Kind.IsContainer() }

// CollectionType returns the container label, or "" for scalar fields.
func (p *Property) CollectionType() string {
	switch p.desc.Kind {
	case meta.KindArray:
		return "array"
	case meta.KindCollection:
		if p.desc.Container != "" {
			return p.desc.Container
		}
		return "slice"
	case meta.KindMap:
		if p.desc.Container != "" {
			return p.desc.Container
		}
		return "map"
	default:
		return ""
	}
}

// EffectiveType returns the element type for arrays and collections, the
// value type for maps, and the declared type otherwise.
func (p *Property) EffectiveType() meta.TypeRef {
	if p.IsCollection() && !p.desc.Elem.IsZero() {
		return p.desc.Elem
	}
	return p.desc.Type
}

// TypeName returns the simple name of the effective type.
func (p *Property) TypeName() string { return p.EffectiveType().Name }

// MappedBy returns the declared inverse field name.
func (p *Property) MappedBy() string { return p.desc.MappedBy }

// MappedByProperty returns the property named by MappedBy once resolved.
func (p *Property) MappedByProperty() *Property { return p.mappedByProperty }

// MappingProperty returns the property whose MappedBy resolved to p.
func (p *Property) MappingProperty() *Property { return p.mappingProperty }

// TargetEntity returns the entity of the effective type for outgoing
// relationships, or nil.
func (p *Property) TargetEntity() *Entity { return p.targetEntity }

// Ignored reports whether the relationship was cut to break a cycle.
func (p *Property) Ignored() bool { return p.ignored }

// IsRelationship reports whether the field declares an association.
func (p *Property) IsRelationship() bool {
	return p.desc.Association != meta.AssocNone
}

// IsOutgoingRelationship reports whether the property is the directed side of
// an association: not the owning side of a mapped pair and not cut by cycle
// suppression.
func (p *Property) IsOutgoingRelationship() bool {
	return p.IsRelationship() && p.mappingProperty == nil && !p.ignored
}

// Tags returns the field tags in lexicographic order.
func (p *Property) Tags() []string {
	return slices.Sorted(slices.Values(p.desc.Tags))
}

func (p *Property) setMappedByProperty(target *Property) {
	p.mappedByProperty = target
	target.mappingProperty = p
}

func (p *Property) String() string {
	var b strings.Builder
	switch {
	case p.IsRelationship() && p.mappingProperty != nil:
		b.WriteString("<--[" + p.Name() + "]-- ")
	case p.IsRelationship():
		b.WriteString("--[" + p.Name() + "]--> ")
	default:
		b.WriteString(p.Name() + ": ")
	}
	if p.IsCollection() {
		b.WriteString("<" + p.CollectionType() + "> ")
	}
	b.WriteString(p.TypeName())
	b.WriteString(tagSuffix(p.Tags()))
	return b.String()
}

func tagSuffix(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " (" + strings.Join(tags, ", ") + ")"
}
