// Package yamlschema loads data object schemas from YAML documents:
//
//	types:
//	  - name: Contact
//	    properties:
//	      name: string
//	      age: string|int|null
//	      personDetails: CustomType|null
//	  - name: CustomType
//	    snake: false
//	    properties:
//	      - {name: nickname, type: string}
//
// Properties may be written as a mapping or as a list of name/type entries;
// both keep document order. A stream may hold several documents. Duplicate
// keys are rejected with their positions.
package yamlschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/dtobj"
	"github.com/reoring/dtobj/internal/yamlstrict"
)

// DuplicateKeyError reports a duplicate YAML key with both positions.
type DuplicateKeyError = yamlstrict.DuplicateKeyError

// Extractor is a dtobj.SchemaExtractor over loaded YAML schemas.
type Extractor struct {
	types map[string]*typeDecl
}

type typeDecl struct {
	line  int
	props []dtobj.PropertySchema
	opts  dtobj.TypeOptions
}

var (
	_ dtobj.SchemaExtractor  = (*Extractor)(nil)
	_ dtobj.OptionsExtractor = (*Extractor)(nil)
)

// PositionError locates a schema error in the YAML source.
type PositionError struct {
	Line int
	Col  int
	Err  error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("yamlschema: %d:%d: %v", e.Line, e.Col, e.Err)
}

func (e *PositionError) Unwrap() error { return e.Err }

func at(n *yaml.Node, format string, args ...any) error {
	return &PositionError{Line: n.Line, Col: n.Column, Err: fmt.Errorf(format, args...)}
}

// Load reads every document of r. Type names must be unique across documents.
func Load(r io.Reader) (*Extractor, error) {
	e := &Extractor{types: map[string]*typeDecl{}}
	dec := yamlstrict.NewDecoder(r)
	for {
		root, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return e, nil
		}
		if err != nil {
			return nil, err
		}
		if root == nil {
			continue
		}
		if err := e.addDocument(root); err != nil {
			return nil, err
		}
	}
}

// LoadBytes is Load over an in-memory document.
func LoadBytes(data []byte) (*Extractor, error) { return Load(bytes.NewReader(data)) }

// LoadFile is Load over the named file.
func LoadFile(path string) (*Extractor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (e *Extractor) addDocument(root *yaml.Node) error {
	if root.Kind != yaml.MappingNode {
		return at(root, "document must be a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Value != "types" {
			return at(k, "unknown key %q", k.Value)
		}
		if v.Kind != yaml.SequenceNode {
			return at(v, "types must be a list")
		}
		for _, tn := range v.Content {
			if err := e.addType(tn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Extractor) addType(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return at(n, "type entry must be a mapping")
	}
	var name string
	td := &typeDecl{line: n.Line, opts: dtobj.DefaultTypeOptions()}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch k.Value {
		case "name":
			name = v.Value
		case "snake":
			b, err := strconv.ParseBool(v.Value)
			if err != nil {
				return at(v, "snake: %v", err)
			}
			td.opts.SnakeKeys = b
		case "properties":
			props, err := properties(v)
			if err != nil {
				return err
			}
			td.props = props
		default:
			return at(k, "unknown type key %q", k.Value)
		}
	}
	if name == "" {
		return at(n, "type entry without name")
	}
	if prev, dup := e.types[name]; dup {
		return at(n, "type %s already declared at line %d", name, prev.line)
	}
	e.types[name] = td
	return nil
}

func properties(n *yaml.Node) ([]dtobj.PropertySchema, error) {
	var out []dtobj.PropertySchema
	seen := map[string]int{}
	add := func(pos *yaml.Node, name, expr string) error {
		if name == "" {
			return at(pos, "property without name")
		}
		if line, dup := seen[name]; dup {
			return at(pos, "property %s already declared at line %d", name, line)
		}
		types, err := dtobj.ParseTypeExpr(expr)
		if err != nil {
			return at(pos, "property %s: %v", name, err)
		}
		seen[name] = pos.Line
		out = append(out, dtobj.NewPropertySchema(name, types))
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return nil, at(v, "property %s: type must be a string", k.Value)
			}
			if err := add(k, k.Value, v.Value); err != nil {
				return nil, err
			}
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			var entry struct {
				Name string `yaml:"name"`
				Type string `yaml:"type"`
			}
			if c.Kind != yaml.MappingNode {
				return nil, at(c, "property entry must be a mapping")
			}
			if err := c.Decode(&entry); err != nil {
				return nil, at(c, "%v", err)
			}
			if err := add(c, entry.Name, entry.Type); err != nil {
				return nil, err
			}
		}
	default:
		return nil, at(n, "properties must be a mapping or a list")
	}
	return out, nil
}

// Properties implements dtobj.SchemaExtractor.
func (e *Extractor) Properties(typeName string) []string {
	td, ok := e.types[typeName]
	if !ok {
		return nil
	}
	out := make([]string, len(td.props))
	for i, p := range td.props {
		out[i] = p.Name
	}
	return out
}

// Types implements dtobj.SchemaExtractor.
func (e *Extractor) Types(typeName, property string) ([]dtobj.Descriptor, bool) {
	td, ok := e.types[typeName]
	if !ok {
		return nil, false
	}
	for _, p := range td.props {
		if p.Name == property {
			return p.Types, true
		}
	}
	return nil, false
}

// Options implements dtobj.OptionsExtractor.
func (e *Extractor) Options(typeName string) (dtobj.TypeOptions, bool) {
	td, ok := e.types[typeName]
	if !ok {
		return dtobj.TypeOptions{}, false
	}
	return td.opts, true
}

// TypeNames returns the loaded type names in ascending order.
func (e *Extractor) TypeNames() []string {
	out := make([]string, 0, len(e.types))
	for n := range e.types {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
