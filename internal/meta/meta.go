// Package meta defines the descriptor shapes a metadata source hands to the
// schema builder. Descriptors are immutable once produced.
package meta

import "strings"

// Provider yields the descriptors of every entity type found in the given
// package patterns.
type Provider interface {
	Load(patterns ...string) ([]*TypeDescriptor, error)
}

// TypeRef identifies a Go type.
type TypeRef struct {
	ID      string // fully-qualified identity, e.g. "example.com/model.User"
	Name    string // simple name, e.g. "User"
	PkgPath string
}

// NewTypeRef builds a TypeRef for a named type declared in pkgPath.
// Predeclared types have an empty pkgPath and use their name as identity.
func NewTypeRef(pkgPath, name string) TypeRef {
	id := name
	if pkgPath != "" {
		id = pkgPath + "." + name
	}
	return TypeRef{ID: id, Name: name, PkgPath: pkgPath}
}

// IsZero reports whether the ref names no type.
func (r TypeRef) IsZero() bool { return r.ID == "" }

// TypeDescriptor describes one modeled type.
type TypeDescriptor struct {
	Ref    TypeRef
	Super  *TypeDescriptor
	Fields []FieldDescriptor // declaration order
	Tags   []string          // pre-rendered, sorted
}

// Package returns the namespace of the type.
func (t *TypeDescriptor) Package() string {
	return t.Ref.PkgPath
}

// FieldDescriptor describes one declared field.
type FieldDescriptor struct {
	Name        string
	Kind        FieldKind
	Container   string  // container label; empty for scalars
	Type        TypeRef // declared type
	Elem        TypeRef // element type of arrays/collections, value type of maps
	Association Association
	MappedBy    string
	Tags        []string // pre-rendered, sorted
	Flags       FieldFlag
}

// FieldKind is the declared shape of a field.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindArray
	KindCollection
	KindMap
)

// IsContainer reports whether the kind holds elements.
func (k FieldKind) IsContainer() bool {
	return k != KindScalar
}

// FieldFlag marks fields that are not persisted.
type FieldFlag uint8

const (
	FlagUnexported FieldFlag = 1 << iota
	FlagTransient
)

// Persistent reports whether no exclusion flag is set.
func (f FieldFlag) Persistent() bool {
	return f&(FlagUnexported|FlagTransient) == 0
}

// Association is the declared association kind of a field.
type Association int

const (
	AssocNone Association = iota
	AssocOneToOne
	AssocOneToMany
	AssocManyToOne
	AssocManyToMany
)

var associationNames = [...]string{
	AssocNone:       "none",
	AssocOneToOne:   "one_to_one",
	AssocOneToMany:  "one_to_many",
	AssocManyToOne:  "many_to_one",
	AssocManyToMany: "many_to_many",
}

func (a Association) String() string {
	if a < 0 || int(a) >= len(associationNames) {
		return "unknown"
	}
	return associationNames[a]
}

// ParseAssociation maps a tag token to an Association. Hyphens and case are
// ignored, so "OneToMany", "one-to-many" and "one_to_many" are equivalent.
func ParseAssociation(s string) (Association, bool) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(s)))
	for a, name := range associationNames {
		if a == int(AssocNone) {
			continue
		}
		if strings.ReplaceAll(name, "_", "") == norm {
			return Association(a), true
		}
	}
	return AssocNone, false
}
