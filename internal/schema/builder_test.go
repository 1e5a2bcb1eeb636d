package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/entity-explorer/internal/meta"
	"github.com/seitarof/entity-explorer/internal/schema"
)

func TestBuild_BidirectionalPair(t *testing.T) {
	g := schema.Build(authorBook())
	require.Equal(t, 2, g.Len())

	author := g.Entity(modelPkg + ".Author")
	book := g.Entity(modelPkg + ".Book")
	require.NotNil(t, author)
	require.NotNil(t, book)

	books := author.Property("books")
	inverse := book.Property("author")
	require.NotNil(t, books)
	require.NotNil(t, inverse)

	assert.Same(t, inverse, books.MappedByProperty())
	assert.Same(t, books, inverse.MappingProperty())
	assert.Nil(t, books.MappingProperty())
	assert.Nil(t, inverse.MappedByProperty())

	assert.True(t, inverse.IsRelationship())
	assert.False(t, inverse.IsOutgoingRelationship())
	assert.True(t, books.IsOutgoingRelationship())
	assert.Same(t, book, books.TargetEntity())
	assert.Nil(t, inverse.TargetEntity())

	assert.True(t, book.IsSingleSubEntity())
	assert.False(t, author.IsSingleSubEntity())
	assert.Empty(t, author.IncomingRelationships())

	roots := g.Roots()
	require.Len(t, roots, 1)
	assert.Same(t, author, roots[0])
}

func TestBuild_PairingIsMutual(t *testing.T) {
	a := typeDesc("A",
		toOne("b", "B", meta.AssocOneToOne),
		toMany("cs", "slice", "C", meta.AssocOneToMany, "a"),
	)
	a.Fields[0].MappedBy = "a"
	b := typeDesc("B", toOne("a", "A", meta.AssocOneToOne))
	c := typeDesc("C", toOne("a", "A", meta.AssocManyToOne))

	g := schema.Build([]*meta.TypeDescriptor{a, b, c})

	for _, e := range g.Entities() {
		for _, p := range e.Properties() {
			if m := p.MappedByProperty(); m != nil {
				assert.Same(t, p, m.MappingProperty(), "%s.%s", e.Name(), p.Name())
			}
			if m := p.MappingProperty(); m != nil {
				assert.Same(t, p, m.MappedByProperty(), "%s.%s", e.Name(), p.Name())
			}
		}
	}
}

func TestBuild_InverseMappedTwiceKeepsFirstPairing(t *testing.T) {
	a := typeDesc("A",
		toMany("first", "slice", "B", meta.AssocOneToMany, "a"),
		toMany("second", "slice", "B", meta.AssocOneToMany, "a"),
	)
	b := typeDesc("B", toOne("a", "A", meta.AssocManyToOne))

	g := schema.Build([]*meta.TypeDescriptor{a, b})
	ea := g.Entity(modelPkg + ".A")
	inverse := g.Entity(modelPkg + ".B").Property("a")

	assert.Same(t, ea.Property("first"), inverse.MappingProperty())
	assert.Same(t, inverse, ea.Property("first").MappedByProperty())
	assert.Nil(t, ea.Property("second").MappedByProperty())
	assert.True(t, ea.Property("second").IsOutgoingRelationship())
}

func TestBuild_DanglingMappedBy(t *testing.T) {
	a := typeDesc("A",
		toMany("missingField", "slice", "B", meta.AssocOneToMany, "nope"),
		toMany("missingType", "slice", "Ghost", meta.AssocOneToMany, "a"),
	)
	b := typeDesc("B", scalar("id", "int"))

	g := schema.Build([]*meta.TypeDescriptor{a, b})
	ea := g.Entity(modelPkg + ".A")

	missingField := ea.Property("missingField")
	assert.Nil(t, missingField.MappedByProperty())
	assert.True(t, missingField.IsOutgoingRelationship())
	assert.Same(t, g.Entity(modelPkg+".B"), missingField.TargetEntity())

	missingType := ea.Property("missingType")
	assert.Nil(t, missingType.MappedByProperty())
	assert.True(t, missingType.IsOutgoingRelationship())
	assert.Nil(t, missingType.TargetEntity())
}

func TestBuild_CycleSuppression(t *testing.T) {
	a := typeDesc("A", toOne("b", "B", meta.AssocManyToOne))
	b := typeDesc("B", toOne("c", "C", meta.AssocManyToOne))
	c := typeDesc("C", toOne("a", "A", meta.AssocManyToOne))

	g := schema.Build([]*meta.TypeDescriptor{a, b, c})

	var ignored []*schema.Property
	for _, e := range g.Entities() {
		for _, p := range e.Properties() {
			if p.Ignored() {
				ignored = append(ignored, p)
			}
		}
	}
	require.Len(t, ignored, 1)
	assert.Equal(t, "a", ignored[0].Name())
	assert.True(t, ignored[0].IsRelationship())
	assert.False(t, ignored[0].IsOutgoingRelationship())
	assert.Nil(t, ignored[0].TargetEntity())

	for _, e := range g.Entities() {
		assertAcyclicFrom(t, e, map[string]bool{})
	}
}

func TestBuild_SelfReferenceIsIgnored(t *testing.T) {
	node := typeDesc("Node",
		scalar("id", "int"),
		toOne("parent", "Node", meta.AssocManyToOne),
	)

	g := schema.Build([]*meta.TypeDescriptor{node})
	e := g.Entity(modelPkg + ".Node")

	assert.True(t, e.Property("parent").Ignored())
	assert.Empty(t, e.OutgoingRelationships())
	assert.Empty(t, e.IncomingRelationships())
}

func TestBuild_IgnoredStaysIgnored(t *testing.T) {
	// Both edges into A close a cycle through the same path.
	a := typeDesc("A", toOne("b", "B", meta.AssocOneToOne))
	b := typeDesc("B",
		toOne("a1", "A", meta.AssocManyToOne),
		toOne("a2", "A", meta.AssocManyToOne),
	)

	g := schema.Build([]*meta.TypeDescriptor{a, b})
	eb := g.Entity(modelPkg + ".B")

	assert.True(t, eb.Property("a1").Ignored())
	assert.True(t, eb.Property("a2").Ignored())
	assert.False(t, g.Entity(modelPkg+".A").Property("b").Ignored())
}

func TestBuild_SuperTypeChain(t *testing.T) {
	base := typeDesc("Base", scalar("id", "int"))
	person := typeDesc("Person", scalar("name", "string"))
	person.Super = base
	employee := typeDesc("Employee", scalar("salary", "int"))
	employee.Super = person
	customer := typeDesc("Customer", scalar("vip", "bool"))
	customer.Super = person

	g := schema.Build([]*meta.TypeDescriptor{employee, customer})

	require.Equal(t, 4, g.Len())
	names := make([]string, 0, g.Len())
	for _, e := range g.Entities() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"Base", "Person", "Employee", "Customer"}, names)

	ep := g.Entity(modelPkg + ".Person")
	assert.Same(t, g.Entity(modelPkg+".Base"), ep.Parent())
	assert.True(t, ep.IsChild())
	assert.False(t, g.Entity(modelPkg+".Base").IsChild())

	children := ep.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "Employee", children[0].Name())
	assert.Equal(t, "Customer", children[1].Name())
	for _, child := range children {
		assert.Same(t, ep, child.Parent())
	}
}

func TestBuild_SuperTypeLoopIsCut(t *testing.T) {
	a := typeDesc("A")
	b := typeDesc("B")
	a.Super = b
	b.Super = a

	g := schema.Build([]*meta.TypeDescriptor{a})

	require.Equal(t, 2, g.Len())
	ea := g.Entity(modelPkg + ".A")
	eb := g.Entity(modelPkg + ".B")
	assert.Same(t, eb, ea.Parent())
	assert.Nil(t, eb.Parent())
}

func TestBuild_FiltersNonPersistentFields(t *testing.T) {
	hidden := scalar("hidden", "string")
	hidden.Flags = meta.FlagUnexported
	cache := scalar("Cache", "string")
	cache.Flags = meta.FlagTransient

	g := schema.Build([]*meta.TypeDescriptor{
		typeDesc("User", scalar("ID", "int"), hidden, cache, scalar("Name", "string")),
	})
	e := g.Entity(modelPkg + ".User")

	props := e.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, "ID", props[0].Name())
	assert.Equal(t, "Name", props[1].Name())
	assert.Nil(t, e.Property("hidden"))
	assert.Nil(t, e.Property("Cache"))
}

func TestBuild_SkipsNilAndDuplicateTypes(t *testing.T) {
	first := typeDesc("User", scalar("ID", "int"))
	second := typeDesc("User", scalar("Other", "int"))

	g := schema.Build([]*meta.TypeDescriptor{nil, first, second})

	require.Equal(t, 1, g.Len())
	assert.NotNil(t, g.Entity(modelPkg+".User").Property("ID"))
}

func TestBuild_Idempotent(t *testing.T) {
	input := cyclicShop()
	g1 := schema.Build(input)
	g2 := schema.Build(input)

	assert.Equal(t, snapshot(g1), snapshot(g2))
}

// assertAcyclicFrom walks outgoing targets and fails on any revisit of the
// current path.
func assertAcyclicFrom(t *testing.T, e *schema.Entity, path map[string]bool) {
	t.Helper()
	require.False(t, path[e.ID()], "cycle through %s", e.Name())
	path[e.ID()] = true
	for _, p := range e.OutgoingRelationships() {
		if target := p.TargetEntity(); target != nil {
			assertAcyclicFrom(t, target, path)
		}
	}
	delete(path, e.ID())
}

func cyclicShop() []*meta.TypeDescriptor {
	customer := typeDesc("Customer",
		scalar("id", "int"),
		toMany("orders", "slice", "Order", meta.AssocOneToMany, "customer"),
		toOne("favorite", "Product", meta.AssocManyToOne),
	)
	order := typeDesc("Order",
		toOne("customer", "Customer", meta.AssocManyToOne),
		toMany("lines", "slice", "Line", meta.AssocOneToMany, ""),
	)
	line := typeDesc("Line", toOne("product", "Product", meta.AssocManyToOne))
	product := typeDesc("Product",
		toOne("lastBuyer", "Customer", meta.AssocManyToOne),
		toMany("tags", "map", "Tag", meta.AssocManyToMany, ""),
	)
	tag := typeDesc("Tag", scalar("label", "string"))
	return []*meta.TypeDescriptor{customer, order, line, product, tag}
}

type propState struct {
	Outgoing, Ignored bool
	MappedBy, Mapping string
	Target            string
}

func snapshot(g *schema.Graph) map[string]any {
	out := map[string]any{}
	for _, e := range g.Entities() {
		out[e.ID()+"#size"] = e.SubgraphSize()
		out[e.ID()+"#incoming"] = len(e.IncomingRelationships())
		for _, p := range e.Properties() {
			s := propState{Outgoing: p.IsOutgoingRelationship(), Ignored: p.Ignored()}
			if m := p.MappedByProperty(); m != nil {
				s.MappedBy = m.Entity().Name() + "." + m.Name()
			}
			if m := p.MappingProperty(); m != nil {
				s.Mapping = m.Entity().Name() + "." + m.Name()
			}
			if target := p.TargetEntity(); target != nil {
				s.Target = target.ID()
			}
			out[e.ID()+"."+p.Name()] = s
		}
	}
	return out
}
