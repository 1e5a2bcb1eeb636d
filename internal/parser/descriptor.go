package parser

import (
	"go/types"
	"log"
	"slices"

	"github.com/seitarof/entity-explorer/internal/meta"
	"github.com/seitarof/entity-explorer/internal/tags"
)

// describer turns named structs into descriptors, sharing one descriptor
// per type identity within a Load.
type describer struct {
	p     *parserImpl
	cache map[string]*meta.TypeDescriptor
}

func newDescriber(p *parserImpl) *describer {
	return &describer{p: p, cache: map[string]*meta.TypeDescriptor{}}
}

func (d *describer) describe(named *types.Named, modulePath string) *meta.TypeDescriptor {
	ref := namedRef(named)
	if td, ok := d.cache[ref.ID]; ok {
		return td
	}
	td := &meta.TypeDescriptor{Ref: ref, Tags: d.p.typeTags(named)}
	d.cache[ref.ID] = td

	st, ok := extractStructType(named)
	if !ok {
		return td
	}
	superIdx := -1
	if super, idx := superType(named, st, modulePath); super != nil {
		td.Super = d.describe(super, modulePath)
		superIdx = idx
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if i == superIdx || f.Name() == "_" {
			continue
		}
		td.Fields = append(td.Fields, d.field(named, f, st.Tag(i)))
	}
	return td
}

// superType returns the first embedded struct declared in the owner's
// package or module, which stands in for the super-type.
func superType(owner *types.Named, st *types.Struct, modulePath string) (*types.Named, int) {
	ownerPkg := ""
	if owner.Obj().Pkg() != nil {
		ownerPkg = owner.Obj().Pkg().Path()
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		named, ok := unwrap(f.Type()).(*types.Named)
		if !ok || named.Obj().Pkg() == nil {
			continue
		}
		if _, ok := named.Underlying().(*types.Struct); !ok {
			continue
		}
		if !shouldRecurseNestedPackage(named.Obj().Pkg().Path(), ownerPkg, modulePath) {
			continue
		}
		return named, i
	}
	return nil, -1
}

func (d *describer) field(owner *types.Named, f *types.Var, rawTag string) meta.FieldDescriptor {
	fd := meta.FieldDescriptor{
		Name: f.Name(),
		Tags: d.p.tags.Render(rawTag),
	}
	if !f.Exported() {
		fd.Flags |= meta.FlagUnexported
	}
	for _, pair := range tags.Split(rawTag) {
		if pair.Key != d.p.relationKey && !slices.Contains(d.p.tags.Keys, pair.Key) {
			continue
		}
		opts := tags.Parse(pair.Value)
		if opts.Skip() {
			fd.Flags |= meta.FlagTransient
			continue
		}
		if pair.Key != d.p.relationKey {
			continue
		}
		assoc, ok := meta.ParseAssociation(opts.Value)
		if !ok {
			log.Printf("entity-explorer: warning: %s.%s: unknown association %q, treated as plain field",
				owner.Obj().Name(), f.Name(), opts.Value)
			continue
		}
		fd.Association = assoc
		fd.MappedBy, _ = opts.Arg(mappedByArg)
	}
	fd.Kind, fd.Container, fd.Type, fd.Elem = analyzeType(f.Type())
	return fd
}

// analyzeType classifies a field type. Pointers and aliases are looked
// through; a named container keeps its own name as the container label.
func analyzeType(t types.Type) (kind meta.FieldKind, container string, declared, elem meta.TypeRef) {
	t = unwrap(t)
	switch v := t.(type) {
	case *types.Named:
		switch under := v.Underlying().(type) {
		case *types.Slice:
			return meta.KindCollection, v.Obj().Name(), namedRef(v), typeRef(under.Elem())
		case *types.Array:
			return meta.KindArray, "array", namedRef(v), typeRef(under.Elem())
		case *types.Map:
			return meta.KindMap, v.Obj().Name(), namedRef(v), typeRef(under.Elem())
		}
		return meta.KindScalar, "", namedRef(v), meta.TypeRef{}
	case *types.Slice:
		return meta.KindCollection, "slice", typeRef(v), typeRef(v.Elem())
	case *types.Array:
		return meta.KindArray, "array", typeRef(v), typeRef(v.Elem())
	case *types.Map:
		return meta.KindMap, "map", typeRef(v), typeRef(v.Elem())
	default:
		return meta.KindScalar, "", typeRef(v), meta.TypeRef{}
	}
}

func unwrap(t types.Type) types.Type {
	for {
		switch v := t.(type) {
		case *types.Alias:
			t = types.Unalias(v)
		case *types.Pointer:
			t = v.Elem()
		default:
			return t
		}
	}
}

func typeRef(t types.Type) meta.TypeRef {
	t = unwrap(t)
	switch v := t.(type) {
	case *types.Named:
		return namedRef(v)
	case *types.Basic:
		return meta.NewTypeRef("", v.Name())
	default:
		return meta.TypeRef{
			ID:   types.TypeString(t, nil),
			Name: types.TypeString(t, packageNameQualifier),
		}
	}
}

func namedRef(n *types.Named) meta.TypeRef {
	pkgPath := ""
	if n.Obj().Pkg() != nil {
		pkgPath = n.Obj().Pkg().Path()
	}
	return meta.NewTypeRef(pkgPath, n.Obj().Name())
}

func packageNameQualifier(p *types.Package) string {
	if p == nil {
		return ""
	}
	return p.Name()
}
