// Package tagschema extracts data object schemas from Go struct types.
//
// Each exported field is a property. Its name comes from the dto tag
// (name=...), then the json tag, then the field name. Its acceptable types
// come from the dto tag (types=...) or are derived from the Go field type:
//
//	type Contact struct {
//		dtobj.Config  `snake:"false"`
//		Name          string
//		Age           any         `dto:"types=string|int|null"`
//		PersonDetails *CustomType `json:"personDetails"`
//		Internal      string      `dto:"-"`
//	}
//
// Pointer, slice and map fields accept null, as does a field tagged with
// the nullable entry. Interface fields need an explicit types= entry.
package tagschema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/reoring/dtobj"
)

// Tag is the struct tag key read by the extractor.
const Tag = "dto"

var configType = reflect.TypeOf(dtobj.Config{})

// Extractor is a dtobj.SchemaExtractor over registered struct types. It is
// safe for concurrent use.
type Extractor struct {
	mu    sync.RWMutex
	types map[string]*typeInfo
	byGo  map[reflect.Type]string
}

type typeInfo struct {
	goType reflect.Type
	props  []dtobj.PropertySchema
	opts   dtobj.TypeOptions
}

var (
	_ dtobj.SchemaExtractor  = (*Extractor)(nil)
	_ dtobj.OptionsExtractor = (*Extractor)(nil)
)

// New returns an empty Extractor.
func New() *Extractor {
	return &Extractor{types: map[string]*typeInfo{}, byGo: map[reflect.Type]string{}}
}

// Register adds the struct types of samples under their Go type names.
// Samples may be struct values or pointers to structs.
func (e *Extractor) Register(samples ...any) error {
	for _, s := range samples {
		t, err := structType(s)
		if err != nil {
			return err
		}
		if err := e.RegisterAs(t.Name(), s); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (e *Extractor) MustRegister(samples ...any) *Extractor {
	if err := e.Register(samples...); err != nil {
		panic(err)
	}
	return e
}

// RegisterAs adds the struct type of sample under name. Registering the same
// Go type twice under one name is a no-op; reusing a name for a different
// type is an error.
func (e *Extractor) RegisterAs(name string, sample any) error {
	t, err := structType(sample)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("tagschema: %s: empty type name", t)
	}
	e.mu.RLock()
	prev, ok := e.types[name]
	e.mu.RUnlock()
	if ok {
		if prev.goType == t {
			return nil
		}
		return fmt.Errorf("tagschema: type name %s already bound to %s", name, prev.goType)
	}
	info, err := build(t)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if prev, ok := e.types[name]; ok && prev.goType != t {
		return fmt.Errorf("tagschema: type name %s already bound to %s", name, prev.goType)
	}
	e.types[name] = info
	e.byGo[t] = name
	return nil
}

// NameOf returns the name a sample's struct type was registered under.
func (e *Extractor) NameOf(sample any) (string, bool) {
	t, err := structType(sample)
	if err != nil {
		return "", false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	n, ok := e.byGo[t]
	return n, ok
}

// Properties implements dtobj.SchemaExtractor.
func (e *Extractor) Properties(typeName string) []string {
	info := e.lookup(typeName)
	if info == nil {
		return nil
	}
	out := make([]string, len(info.props))
	for i, p := range info.props {
		out[i] = p.Name
	}
	return out
}

// Types implements dtobj.SchemaExtractor.
func (e *Extractor) Types(typeName, property string) ([]dtobj.Descriptor, bool) {
	info := e.lookup(typeName)
	if info == nil {
		return nil, false
	}
	for _, p := range info.props {
		if p.Name == property {
			return p.Types, true
		}
	}
	return nil, false
}

// Options implements dtobj.OptionsExtractor.
func (e *Extractor) Options(typeName string) (dtobj.TypeOptions, bool) {
	info := e.lookup(typeName)
	if info == nil {
		return dtobj.TypeOptions{}, false
	}
	return info.opts, true
}

// TypeNames returns the registered type names in ascending order.
func (e *Extractor) TypeNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.types))
	for n := range e.types {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (e *Extractor) lookup(name string) *typeInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.types[name]
}

func structType(sample any) (reflect.Type, error) {
	t := reflect.TypeOf(sample)
	if t == nil {
		return nil, fmt.Errorf("tagschema: nil sample")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tagschema: invalid sample type: %s", t.Kind())
	}
	return t, nil
}

func build(t reflect.Type) (*typeInfo, error) {
	info := &typeInfo{goType: t, opts: dtobj.DefaultTypeOptions()}
	seen := map[string]string{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type == configType {
			if err := readConfig(sf.Tag, &info.opts); err != nil {
				return nil, fmt.Errorf("tagschema: %s: %w", t, err)
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		ft, err := parseFieldTag(sf)
		if err != nil {
			return nil, fmt.Errorf("tagschema: %s.%s: %w", t, sf.Name, err)
		}
		if ft.skip {
			continue
		}
		if other, dup := seen[ft.name]; dup {
			return nil, fmt.Errorf("tagschema: %s: fields %s and %s both map to property %s", t, other, sf.Name, ft.name)
		}
		seen[ft.name] = sf.Name

		types := ft.types
		if types == nil {
			types, err = derive(sf.Type)
			if err != nil {
				return nil, fmt.Errorf("tagschema: %s.%s: %w", t, sf.Name, err)
			}
		}
		if ft.nullable {
			types = withNull(types)
		}
		info.props = append(info.props, dtobj.NewPropertySchema(ft.name, types))
	}
	return info, nil
}

func readConfig(tag reflect.StructTag, o *dtobj.TypeOptions) error {
	if v, ok := tag.Lookup("snake"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("snake tag: %w", err)
		}
		o.SnakeKeys = b
	}
	return nil
}

type fieldTag struct {
	name     string
	types    []dtobj.Descriptor
	nullable bool
	skip     bool
}

func parseFieldTag(sf reflect.StructField) (fieldTag, error) {
	ft := fieldTag{name: sf.Name}
	if jt := sf.Tag.Get("json"); jt != "" {
		n, _, _ := strings.Cut(jt, ",")
		switch n {
		case "-":
			ft.skip = true
		case "":
		default:
			ft.name = n
		}
	}
	dt, ok := sf.Tag.Lookup(Tag)
	if !ok {
		return ft, nil
	}
	if dt == "-" {
		ft.skip = true
		return ft, nil
	}
	for _, p := range strings.Split(dt, ",") {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "name="):
			ft.name = strings.TrimPrefix(p, "name=")
			ft.skip = false
		case strings.HasPrefix(p, "types="):
			ds, err := dtobj.ParseTypeExpr(strings.TrimPrefix(p, "types="))
			if err != nil {
				return ft, err
			}
			ft.types = ds
		case p == "nullable":
			ft.nullable = true
		default:
			return ft, fmt.Errorf("unknown %s tag entry %q", Tag, p)
		}
	}
	if ft.name == "" {
		return ft, fmt.Errorf("empty property name")
	}
	return ft, nil
}

// derive maps a Go field type onto descriptors.
func derive(t reflect.Type) ([]dtobj.Descriptor, error) {
	switch t.Kind() {
	case reflect.Pointer:
		inner, err := derive(t.Elem())
		if err != nil {
			return nil, err
		}
		return withNull(inner), nil
	case reflect.Bool:
		return []dtobj.Descriptor{dtobj.Builtin(dtobj.KindBool)}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []dtobj.Descriptor{dtobj.Builtin(dtobj.KindInt)}, nil
	case reflect.Float32, reflect.Float64:
		return []dtobj.Descriptor{dtobj.Builtin(dtobj.KindFloat)}, nil
	case reflect.String:
		return []dtobj.Descriptor{dtobj.Builtin(dtobj.KindString)}, nil
	case reflect.Array:
		return []dtobj.Descriptor{dtobj.Builtin(dtobj.KindArray)}, nil
	case reflect.Slice, reflect.Map:
		return []dtobj.Descriptor{dtobj.Builtin(dtobj.KindArray), dtobj.Builtin(dtobj.KindNull)}, nil
	case reflect.Struct:
		if t.Name() == "" {
			return []dtobj.Descriptor{dtobj.Builtin(dtobj.KindObject)}, nil
		}
		return []dtobj.Descriptor{dtobj.Class(t.Name())}, nil
	case reflect.Interface:
		return nil, fmt.Errorf("interface field needs an explicit types= entry")
	}
	return nil, fmt.Errorf("unsupported field kind %s", t.Kind())
}

func withNull(ds []dtobj.Descriptor) []dtobj.Descriptor {
	for _, d := range ds {
		if d.Kind == dtobj.KindNull {
			return ds
		}
	}
	return append(append([]dtobj.Descriptor(nil), ds...), dtobj.Builtin(dtobj.KindNull))
}
