package schema_test

import (
	"github.com/seitarof/entity-explorer/internal/meta"
)

const modelPkg = "example.com/model"

func ref(name string) meta.TypeRef {
	return meta.NewTypeRef(modelPkg, name)
}

func typeDesc(name string, fields ...meta.FieldDescriptor) *meta.TypeDescriptor {
	return &meta.TypeDescriptor{Ref: ref(name), Fields: fields}
}

func scalar(name, typ string) meta.FieldDescriptor {
	return meta.FieldDescriptor{Name: name, Type: meta.NewTypeRef("", typ)}
}

func toOne(name, target string, assoc meta.Association) meta.FieldDescriptor {
	return meta.FieldDescriptor{Name: name, Type: ref(target), Association: assoc}
}

func toMany(name, container, target string, assoc meta.Association, mappedBy string) meta.FieldDescriptor {
	return meta.FieldDescriptor{
		Name:        name,
		Kind:        meta.KindCollection,
		Container:   container,
		Type:        meta.NewTypeRef("", container),
		Elem:        ref(target),
		Association: assoc,
		MappedBy:    mappedBy,
	}
}

// authorBook is the bidirectional one-to-many pair used across tests.
func authorBook() []*meta.TypeDescriptor {
	author := typeDesc("Author",
		scalar("id", "int"),
		toMany("books", "List", "Book", meta.AssocOneToMany, "author"),
	)
	book := typeDesc("Book",
		scalar("id", "int"),
		toOne("author", "Author", meta.AssocManyToOne),
	)
	return []*meta.TypeDescriptor{author, book}
}
