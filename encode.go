package dtobj

import (
	"bytes"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// TextEncoder renders a serialized Mapping as text. Errors are returned to
// the caller unchanged.
type TextEncoder interface {
	Encode(m *Mapping) ([]byte, error)
}

// TextEncoderFunc adapts a function to TextEncoder.
type TextEncoderFunc func(m *Mapping) ([]byte, error)

func (f TextEncoderFunc) Encode(m *Mapping) ([]byte, error) { return f(m) }

// JSONOption configures JSONEncoder.
type JSONOption func(*JSONEncoder)

// WithIndent pretty-prints with the given prefix and indent.
func WithIndent(prefix, indent string) JSONOption {
	return func(e *JSONEncoder) { e.Prefix, e.Indent = prefix, indent }
}

// WithEscapeHTML toggles escaping of <, > and & inside strings (default on).
func WithEscapeHTML(on bool) JSONOption {
	return func(e *JSONEncoder) { e.NoEscapeHTML = !on }
}

// JSONEncoder encodes with goccy/go-json, keeping Mapping order.
type JSONEncoder struct {
	Prefix       string
	Indent       string
	NoEscapeHTML bool
}

// NewJSONEncoder returns a JSONEncoder configured by opts.
func NewJSONEncoder(opts ...JSONOption) JSONEncoder {
	var e JSONEncoder
	for _, o := range opts {
		o(&e)
	}
	return e
}

func (e JSONEncoder) Encode(m *Mapping) ([]byte, error) {
	b, err := m.appendJSON(nil, !e.NoEscapeHTML)
	if err != nil {
		return nil, err
	}
	if e.Prefix == "" && e.Indent == "" {
		return b, nil
	}
	var buf bytes.Buffer
	if err := j.Indent(&buf, b, e.Prefix, e.Indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAMLEncoder encodes with yaml.v3, keeping Mapping order.
type YAMLEncoder struct {
	Indent int // spaces per level; 0 means 2.
}

func (e YAMLEncoder) Encode(m *Mapping) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := e.Indent
	if indent == 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
