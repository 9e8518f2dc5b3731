package jsonschema

import (
	j "github.com/goccy/go-json"
)

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	Schema      string `json:"$schema,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Type        Types  `json:"type,omitempty"`

	// Object
	Properties           *Properties `json:"properties,omitempty"`
	Required             []string    `json:"required,omitempty"`
	AdditionalProperties any         `json:"additionalProperties,omitempty"`

	// Union
	AnyOf []*Schema `json:"anyOf,omitempty"`
}

// Draft is the $schema URI emitted for root schemas.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Types is a JSON Schema "type" keyword: a single name or a list of names.
type Types []string

// MarshalJSON emits a bare string for a single type and an array otherwise.
func (t Types) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return j.Marshal(t[0])
	}
	return j.Marshal([]string(t))
}

// Properties keeps property schemas in declaration order.
type Properties struct {
	names   []string
	schemas map[string]*Schema
}

// Add appends a property schema.
func (p *Properties) Add(name string, s *Schema) {
	if p.schemas == nil {
		p.schemas = map[string]*Schema{}
	}
	if _, ok := p.schemas[name]; !ok {
		p.names = append(p.names, name)
	}
	p.schemas[name] = s
}

// Get returns the schema of a property.
func (p *Properties) Get(name string) (*Schema, bool) {
	s, ok := p.schemas[name]
	return s, ok
}

// Names returns the property names in order.
func (p *Properties) Names() []string { return append([]string(nil), p.names...) }

// MarshalJSON encodes the properties as an ordered JSON object.
func (p *Properties) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, n := range p.names {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := j.Marshal(n)
		if err != nil {
			return nil, err
		}
		vb, err := j.Marshal(p.schemas[n])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}
