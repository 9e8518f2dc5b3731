package dtobj

import (
	"fmt"
	"sort"
	"sync"
)

// SchemaExtractor discovers the declared properties of a type. It is the
// single source of schema information consumed by a Registry.
//
// Implementations must be deterministic. Properties returns nil when the
// type has no declaration; Types reports ok == false for undeclared
// properties.
type SchemaExtractor interface {
	Properties(typeName string) []string
	Types(typeName, property string) ([]Descriptor, bool)
}

// OptionsExtractor is optionally implemented by extractors that carry
// per-type configuration.
type OptionsExtractor interface {
	Options(typeName string) (TypeOptions, bool)
}

// Declarations is an in-memory SchemaExtractor filled programmatically.
//
//	decl := dtobj.NewDeclarations()
//	decl.Declare("User").
//		Property("name", "string").
//		Property("age", "int|null")
type Declarations struct {
	mu    sync.RWMutex
	types map[string]*declaredType
}

type declaredType struct {
	props []PropertySchema
	opts  TypeOptions
}

// NewDeclarations returns an empty declaration set.
func NewDeclarations() *Declarations {
	return &Declarations{types: map[string]*declaredType{}}
}

// TypeDecl is the builder returned by Declare.
type TypeDecl struct {
	d    *Declarations
	name string
	err  error
}

// Declare starts (or replaces) the declaration of a type. Snake-case keys are
// on by default.
func (d *Declarations) Declare(name string) *TypeDecl {
	d.mu.Lock()
	d.types[name] = &declaredType{opts: DefaultTypeOptions()}
	d.mu.Unlock()
	return &TypeDecl{d: d, name: name}
}

// Property appends a property declared with the ParseTypeExpr grammar.
// Redeclaring a property name is an error reported by Err.
func (t *TypeDecl) Property(name, typeExpr string) *TypeDecl {
	if t.err != nil {
		return t
	}
	ds, err := ParseTypeExpr(typeExpr)
	if err != nil {
		t.err = fmt.Errorf("%s.%s: %w", t.name, name, err)
		return t
	}
	return t.PropertyOf(name, ds...)
}

// PropertyOf appends a property with explicit descriptors.
func (t *TypeDecl) PropertyOf(name string, types ...Descriptor) *TypeDecl {
	if t.err != nil {
		return t
	}
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	dt := t.d.types[t.name]
	for _, p := range dt.props {
		if p.Name == name {
			t.err = fmt.Errorf("dtobj: %s.%s declared twice", t.name, name)
			return t
		}
	}
	dt.props = append(dt.props, NewPropertySchema(name, types))
	return t
}

// SnakeKeys toggles snake_case key rewriting for the type.
func (t *TypeDecl) SnakeKeys(on bool) *TypeDecl {
	t.d.mu.Lock()
	t.d.types[t.name].opts.SnakeKeys = on
	t.d.mu.Unlock()
	return t
}

// Err reports the first declaration error.
func (t *TypeDecl) Err() error { return t.err }

// Properties implements SchemaExtractor.
func (d *Declarations) Properties(typeName string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dt, ok := d.types[typeName]
	if !ok {
		return nil
	}
	out := make([]string, len(dt.props))
	for i, p := range dt.props {
		out[i] = p.Name
	}
	return out
}

// Types implements SchemaExtractor.
func (d *Declarations) Types(typeName, property string) ([]Descriptor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dt, ok := d.types[typeName]
	if !ok {
		return nil, false
	}
	for _, p := range dt.props {
		if p.Name == property {
			return append([]Descriptor(nil), p.Types...), true
		}
	}
	return nil, false
}

// Options implements OptionsExtractor.
func (d *Declarations) Options(typeName string) (TypeOptions, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dt, ok := d.types[typeName]
	if !ok {
		return TypeOptions{}, false
	}
	return dt.opts, true
}

// TypeNames returns the declared type names in ascending order.
func (d *Declarations) TypeNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.types))
	for n := range d.types {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
