package dtobj

import (
	"encoding/json"
	"reflect"
	"strings"
)

// KindOf classifies the dynamic value v.
func KindOf(v any) Kind {
	switch n := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr:
		return KindInt
	case float32, float64:
		return KindFloat
	case string:
		return KindString
	case json.Number:
		return numberKind(n)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindObject
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return KindNull
		}
		return KindArray
	case reflect.Array:
		return KindArray
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return KindNull
		}
	}
	return KindObject
}

// numberKind classifies a JSON number literal by its syntax: a fraction or
// an exponent makes it a float, so integers beyond int64 stay int.
func numberKind(n json.Number) Kind {
	if strings.ContainsAny(string(n), ".eE") {
		return KindFloat
	}
	return KindInt
}

// Typed is implemented by values that carry a declared type name of their
// own, such as *Object. Class descriptors compare against that name instead
// of the Go type name.
type Typed interface {
	Type() string
}

// TypeName returns the simple name of the dynamic type of v with pointers
// dereferenced and the package path stripped. It returns "" for unnamed types.
func TypeName(v any) string {
	if tv, ok := v.(Typed); ok {
		return SimpleName(tv.Type())
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Matches reports whether v satisfies at least one of the property's
// descriptors. Class descriptors compare simple type names only, so two
// distinct types that share a name in different packages both match.
func Matches(v any, ps PropertySchema) bool {
	k := KindOf(v)
	if k == KindNull && ps.Nullable {
		return true
	}
	for _, d := range ps.Types {
		if matchDescriptor(v, k, d) {
			return true
		}
	}
	return false
}

func matchDescriptor(v any, k Kind, d Descriptor) bool {
	if d.Class != "" {
		return k == KindObject && TypeName(v) == d.Class
	}
	return k == d.Kind
}
