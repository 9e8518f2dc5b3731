package dtobj

import (
	js "github.com/reoring/dtobj/jsonschema"
)

// JSONSchema projects the type schema into JSON Schema. Property names are
// the serialized keys, nullable properties are optional and unknown keys are
// rejected.
func (ts *TypeSchema) JSONSchema() *js.Schema {
	root := &js.Schema{
		Schema:               js.Draft,
		Title:                ts.Name,
		Type:                 js.Types{"object"},
		Properties:           &js.Properties{},
		AdditionalProperties: false,
	}
	for _, ps := range ts.Properties {
		key := outputKey(ts, ps.Name)
		root.Properties.Add(key, propertyJSONSchema(ps))
		if !ps.Nullable {
			root.Required = append(root.Required, key)
		}
	}
	return root
}

func propertyJSONSchema(ps PropertySchema) *js.Schema {
	var prims js.Types
	var classes []string
	for _, d := range ps.Types {
		if d.Class != "" {
			classes = append(classes, d.Class)
			continue
		}
		prims = append(prims, jsonTypeNames(d.Kind)...)
	}
	if len(classes) == 0 {
		return &js.Schema{Type: prims}
	}
	if len(classes) == 1 && len(prims) == 0 {
		return &js.Schema{Type: js.Types{"object"}, Title: classes[0]}
	}
	s := &js.Schema{}
	for _, c := range classes {
		s.AnyOf = append(s.AnyOf, &js.Schema{Type: js.Types{"object"}, Title: c})
	}
	if len(prims) > 0 {
		s.AnyOf = append(s.AnyOf, &js.Schema{Type: prims})
	}
	return s
}

// jsonTypeNames maps a kind onto JSON Schema type names. Maps count as
// arrays, so an array accepts JSON objects too.
func jsonTypeNames(k Kind) []string {
	switch k {
	case KindBool:
		return []string{"boolean"}
	case KindInt:
		return []string{"integer"}
	case KindFloat:
		return []string{"number"}
	case KindArray:
		return []string{"array", "object"}
	default:
		return []string{k.String()}
	}
}
