package dtobj

import (
	"encoding/json"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Mapping is the ordered key/value output of serialization.
type Mapping struct {
	keys   []string
	values map[string]any
}

// NewMapping returns an empty Mapping with room for n entries.
func NewMapping(n int) *Mapping {
	return &Mapping{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

// Set appends key or replaces its value in place.
func (m *Mapping) Set(key string, v any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string { return append([]string(nil), m.keys...) }

// Range calls fn for each entry in order until fn returns false.
func (m *Mapping) Range(fn func(key string, v any) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Map returns a plain map; nested Mappings are converted recursively.
func (m *Mapping) Map() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = plain(m.values[k])
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Mapping:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

// MarshalJSON encodes the entries as a JSON object in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) { return m.appendJSON(nil, true) }

// appendJSON writes the object to dst. Nested Mappings inherit escapeHTML.
func (m *Mapping) appendJSON(dst []byte, escapeHTML bool) ([]byte, error) {
	marshal := j.Marshal
	if !escapeHTML {
		marshal = j.MarshalNoEscape
	}
	dst = append(dst, '{')
	for i, k := range m.keys {
		if i > 0 {
			dst = append(dst, ',')
		}
		kb, err := marshal(k)
		if err != nil {
			return nil, err
		}
		dst = append(append(dst, kb...), ':')
		if nested, ok := m.values[k].(*Mapping); ok && nested != nil {
			if dst, err = nested.appendJSON(dst, escapeHTML); err != nil {
				return nil, err
			}
			continue
		}
		vb, err := marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		dst = append(dst, vb...)
	}
	return append(dst, '}'), nil
}

// MarshalYAML encodes the entries as a YAML mapping in insertion order.
// json.Number values are written as YAML numbers.
func (m *Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		vn := &yaml.Node{}
		if err := vn.Encode(yamlValue(m.values[k])); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, kn, vn)
	}
	return node, nil
}

func yamlValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		tag := "!!int"
		if numberKind(t) == KindFloat {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = yamlValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = yamlValue(e)
		}
		return out
	}
	return v
}
