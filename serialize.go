package dtobj

import (
	"github.com/reoring/dtobj/internal/strcase"
)

// SerializeMode selects which properties appear in a Mapping.
type SerializeMode int

const (
	// SerializeFull emits every declared property, defaults included.
	SerializeFull SerializeMode = iota
	// SerializePartial emits only the properties supplied at construction.
	SerializePartial
)

// Mapper is implemented by values that serialize themselves into a Mapping.
// Serialization expands Mapper values recursively.
type Mapper interface {
	ToMapping() *Mapping
}

// serialize projects the store into a Mapping for the given mode.
func serialize(st *propertyStore, mode SerializeMode) *Mapping {
	ts := st.schema
	out := NewMapping(len(ts.Properties))
	for i, ps := range ts.Properties {
		if mode == SerializePartial && !st.isInitialized(ps.Name) {
			continue
		}
		out.Set(outputKey(ts, ps.Name), expand(st.values[i]))
	}
	return out
}

func outputKey(ts *TypeSchema, name string) string {
	if ts.Options.SnakeKeys {
		return strcase.Snake(name)
	}
	return name
}

// expand renders typed nils as nil and nested Mappers as Mappings.
func expand(v any) any {
	if KindOf(v) == KindNull {
		return nil
	}
	if m, ok := v.(Mapper); ok {
		return m.ToMapping()
	}
	return v
}
