package dtobj

import (
	"fmt"
	"strings"
)

// Kind is the runtime kind of a value as seen by the type matcher.
type Kind int

const (
	KindNull   Kind = iota // nil and nil references.
	KindBool               // bool.
	KindInt                // Signed and unsigned integers, integral json.Number.
	KindFloat              // float32/float64, fractional json.Number.
	KindString             // string.
	KindArray              // Slices, arrays and maps.
	KindObject             // Structs and every other named value.
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Descriptor is one acceptable type of a declared property: either a
// builtin kind or a class name (Kind == KindObject, Class != "").
type Descriptor struct {
	Kind  Kind
	Class string
}

// Builtin returns a descriptor for a primitive kind.
func Builtin(k Kind) Descriptor { return Descriptor{Kind: k} }

// Class returns a descriptor matching objects whose simple type name is name.
func Class(name string) Descriptor { return Descriptor{Kind: KindObject, Class: SimpleName(name)} }

func (d Descriptor) String() string {
	if d.Class != "" {
		return d.Class
	}
	return d.Kind.String()
}

// PropertySchema describes a single declared property.
type PropertySchema struct {
	Name     string
	Types    []Descriptor
	Nullable bool
}

// NewPropertySchema builds a PropertySchema, deriving Nullable from the
// descriptors.
func NewPropertySchema(name string, types []Descriptor) PropertySchema {
	ps := PropertySchema{Name: name, Types: types}
	for _, d := range types {
		if d.Kind == KindNull && d.Class == "" {
			ps.Nullable = true
			break
		}
	}
	return ps
}

// TypeExpr renders the descriptors back into the declaration grammar.
func (p PropertySchema) TypeExpr() string {
	parts := make([]string, len(p.Types))
	for i, d := range p.Types {
		parts[i] = d.String()
	}
	return strings.Join(parts, "|")
}

// TypeOptions is per-type configuration read once when the schema is cached.
type TypeOptions struct {
	// SnakeKeys rewrites camelCase property names to snake_case on
	// serialization.
	SnakeKeys bool
}

// DefaultTypeOptions returns the options used when the declaration is silent.
func DefaultTypeOptions() TypeOptions { return TypeOptions{SnakeKeys: true} }

// TypeSchema is the cached, read-only schema of one declared type.
type TypeSchema struct {
	Name       string
	Properties []PropertySchema
	Options    TypeOptions

	index map[string]int
}

func newTypeSchema(name string, props []PropertySchema, opts TypeOptions) *TypeSchema {
	ts := &TypeSchema{Name: name, Properties: props, Options: opts, index: make(map[string]int, len(props))}
	for i, p := range props {
		ts.index[p.Name] = i
	}
	return ts
}

// Property returns the declared property with the given name.
func (ts *TypeSchema) Property(name string) (PropertySchema, bool) {
	i, ok := ts.index[name]
	if !ok {
		return PropertySchema{}, false
	}
	return ts.Properties[i], true
}

// Names returns the declared property names in declaration order.
func (ts *TypeSchema) Names() []string {
	out := make([]string, len(ts.Properties))
	for i, p := range ts.Properties {
		out[i] = p.Name
	}
	return out
}

// ParseTypeExpr parses a declaration such as "string|int|null" or
// "\App\Person|null" into descriptors. "T[]" and "[]T" declare arrays.
func ParseTypeExpr(expr string) ([]Descriptor, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("dtobj: empty type expression")
	}
	parts := strings.Split(expr, "|")
	out := make([]Descriptor, 0, len(parts))
	seen := make(map[Descriptor]struct{}, len(parts))
	for _, raw := range parts {
		d, err := parseDescriptor(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("dtobj: type expression %q: %w", expr, err)
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// MustParseTypeExpr is like ParseTypeExpr but panics on error.
func MustParseTypeExpr(expr string) []Descriptor {
	ds, err := ParseTypeExpr(expr)
	if err != nil {
		panic(err)
	}
	return ds
}

func parseDescriptor(s string) (Descriptor, error) {
	if s == "" {
		return Descriptor{}, fmt.Errorf("empty alternative")
	}
	if strings.HasPrefix(s, "?") {
		return Descriptor{}, fmt.Errorf("nullable shorthand %q is not supported, use %s|null", s, s[1:])
	}
	if strings.HasSuffix(s, "[]") || strings.HasPrefix(s, "[]") {
		return Builtin(KindArray), nil
	}
	switch strings.ToLower(s) {
	case "null":
		return Builtin(KindNull), nil
	case "bool", "boolean":
		return Builtin(KindBool), nil
	case "int", "integer":
		return Builtin(KindInt), nil
	case "float", "double":
		return Builtin(KindFloat), nil
	case "string":
		return Builtin(KindString), nil
	case "array", "iterable":
		return Builtin(KindArray), nil
	case "object":
		return Builtin(KindObject), nil
	case "mixed", "any":
		return Descriptor{}, fmt.Errorf("%q is not a checkable type", s)
	}
	name := SimpleName(s)
	if name == "" {
		return Descriptor{}, fmt.Errorf("invalid class name %q", s)
	}
	return Class(name), nil
}

// SimpleName strips namespace and package qualifiers from a type name:
// "\App\Dto\Person", "app.Person" and "*app.Person" all yield "Person".
func SimpleName(name string) string {
	name = strings.TrimLeft(name, "*")
	if i := strings.LastIndexAny(name, `\./`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Config is embedded in struct-declared types to carry per-type options in
// its tag:
//
//	type Contact struct {
//		dtobj.Config `snake:"false"`
//		Name string `dto:"name=name"`
//	}
type Config struct{}
