package parser

import (
	"cmp"
	"fmt"
	"go/types"
	"log"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/entity-explorer/internal/meta"
	"github.com/seitarof/entity-explorer/internal/naming"
	"github.com/seitarof/entity-explorer/internal/tags"
)

const (
	// DefaultMarkerKey is the tag key of the blank field that marks a struct
	// as an entity: `_ struct{} orm:"entity"`.
	DefaultMarkerKey = "orm"
	// DefaultRelationKey is the tag key declaring associations.
	DefaultRelationKey = "rel"

	entityMarker = "entity"
	mappedByArg  = "mapped_by"
	tableArg     = "table"
)

// Parser extracts entity descriptors from Go packages.
type Parser interface {
	meta.Provider
	// Dirs returns the source directories of the packages seen by the last
	// Load.
	Dirs() []string
}

// Option configures a Parser.
type Option func(*parserImpl)

// WithTagRenderer sets the renderer used for type and field tags.
func WithTagRenderer(r *tags.Renderer) Option {
	return func(p *parserImpl) {
		if r != nil {
			p.tags = r
		}
	}
}

// WithMarkerKey sets the tag key of the entity marker field.
func WithMarkerKey(key string) Option {
	return func(p *parserImpl) {
		if key != "" {
			p.markerKey = key
		}
	}
}

// WithRelationKey sets the tag key declaring associations.
func WithRelationKey(key string) Option {
	return func(p *parserImpl) {
		if key != "" {
			p.relationKey = key
		}
	}
}

// WithInferTables adds a table argument to entity markers that lack one.
func WithInferTables(infer bool) Option {
	return func(p *parserImpl) {
		p.inferTables = infer
	}
}

// WithDir sets the directory package patterns are resolved from.
func WithDir(dir string) Option {
	return func(p *parserImpl) {
		p.dir = dir
	}
}

type parserImpl struct {
	tags        *tags.Renderer
	markerKey   string
	relationKey string
	inferTables bool
	dir         string

	dirs []string
}

// New returns default parser.
func New(opts ...Option) Parser {
	p := &parserImpl{
		tags:        tags.NewRenderer(nil, nil),
		markerKey:   DefaultMarkerKey,
		relationKey: DefaultRelationKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *parserImpl) Dirs() []string {
	return slices.Clone(p.dirs)
}

// Load returns one descriptor per entity struct declared in the packages
// matched by patterns, in package then declaration order.
func (p *parserImpl) Load(patterns ...string) ([]*meta.TypeDescriptor, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	pkgs, err := p.loadPackages(patterns)
	if err != nil {
		return nil, err
	}

	p.dirs = packageDirs(pkgs)
	d := newDescriber(p)
	var result []*meta.TypeDescriptor
	for _, pkg := range pkgs {
		if pkg.Types == nil || pkg.Types.Scope() == nil {
			log.Printf("entity-explorer: warning: type info unavailable for package %q, skipped", pkg.PkgPath)
			continue
		}
		modulePath := ""
		if pkg.Module != nil {
			modulePath = pkg.Module.Path
		}
		for _, named := range declaredStructs(pkg.Types) {
			if !p.isEntity(named) {
				continue
			}
			result = append(result, d.describe(named, modulePath))
		}
	}
	return result, nil
}

func (p *parserImpl) loadPackages(patterns []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes |
			packages.NeedModule,
		Dir: p.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages %q: %w", patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %q", patterns)
	}
	// Packages that cannot be listed fail the load; type errors only warn.
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.ListError {
				return nil, fmt.Errorf("load package %q: %w", pkg.PkgPath, e)
			}
			log.Printf("entity-explorer: warning: package %q: %v", pkg.PkgPath, e)
		}
	}
	return pkgs, nil
}

func packageDirs(pkgs []*packages.Package) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, pkg := range pkgs {
		for _, f := range pkg.GoFiles {
			dir := filepath.Dir(f)
			if seen[dir] {
				continue
			}
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// declaredStructs returns the named struct types of pkg in declaration
// order. Aliases are left out so every struct is seen once.
func declaredStructs(pkg *types.Package) []*types.Named {
	scope := pkg.Scope()
	var out []*types.Named
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}
		if _, ok := named.Underlying().(*types.Struct); !ok {
			continue
		}
		out = append(out, named)
	}
	slices.SortFunc(out, func(a, b *types.Named) int {
		return cmp.Compare(a.Obj().Pos(), b.Obj().Pos())
	})
	return out
}

// isEntity reports whether the struct has a blank marker field such as
// `_ struct{} orm:"entity"`.
func (p *parserImpl) isEntity(named *types.Named) bool {
	_, ok := p.marker(named)
	return ok
}

// marker returns the raw tag of the marker field.
func (p *parserImpl) marker(named *types.Named) (string, bool) {
	st, ok := extractStructType(named)
	if !ok {
		return "", false
	}
	for i := 0; i < st.NumFields(); i++ {
		if st.Field(i).Name() != "_" {
			continue
		}
		raw := st.Tag(i)
		for _, pair := range tags.Split(raw) {
			if pair.Key == p.markerKey && tags.Parse(pair.Value).Value == entityMarker {
				return raw, true
			}
		}
	}
	return "", false
}

// typeTags renders the marker field tag of a type, adding the inferred table
// name when enabled.
func (p *parserImpl) typeTags(named *types.Named) []string {
	raw, ok := p.marker(named)
	if !ok {
		return nil
	}
	var out []string
	for _, pair := range tags.Split(raw) {
		if !slices.Contains(p.tags.Keys, pair.Key) {
			continue
		}
		opts := tags.Parse(pair.Value)
		if pair.Key == p.markerKey && p.inferTables {
			if _, ok := opts.Arg(tableArg); !ok {
				opts.Args = append(opts.Args, tags.Arg{Name: tableArg, Value: naming.TableName(named.Obj().Name())})
			}
		}
		out = append(out, p.tags.Format(pair.Key, opts))
	}
	slices.Sort(out)
	return out
}

func extractStructType(t types.Type) (*types.Struct, bool) {
	switch v := t.(type) {
	case *types.Alias:
		return extractStructType(v.Rhs())
	case *types.Named:
		return extractStructType(v.Underlying())
	case *types.Struct:
		return v, true
	default:
		return nil, false
	}
}

func shouldRecurseNestedPackage(nestedPkgPath, currentPkgPath, rootModulePath string) bool {
	if nestedPkgPath == "" {
		return false
	}
	if nestedPkgPath == currentPkgPath {
		return true
	}
	if rootModulePath == "" {
		return false
	}
	return nestedPkgPath == rootModulePath || strings.HasPrefix(nestedPkgPath, rootModulePath+"/")
}
