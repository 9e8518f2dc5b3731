// Package yamlstrict decodes YAML through yaml.Node so that duplicate mapping
// keys are reported with positions instead of silently overwritten.
package yamlstrict

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// Decoder reads a multi-document YAML stream.
type Decoder struct {
	dec *yaml.Decoder
}

// NewDecoder constructs a Decoder.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: yaml.NewDecoder(r)}
}

// Next returns the root node of the next document after checking it for
// duplicate keys. It returns (nil, io.EOF) when the stream is exhausted and
// (nil, nil) for an empty document.
func (d *Decoder) Next() (*yaml.Node, error) {
	var doc yaml.Node
	if err := d.dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if err := CheckDuplicates(root); err != nil {
		return nil, err
	}
	return root, nil
}

// CheckDuplicates walks n and fails on the first mapping that repeats a key.
func CheckDuplicates(n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			if err := CheckDuplicates(c); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if pos, dup := first[k.Value]; dup {
				return &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			if err := CheckDuplicates(n.Content[i+1]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Member is one key/value pair of a mapping node, in document order.
type Member struct {
	Key   string
	Value any
	Line  int
	Col   int
}

// ErrNotMapping is returned by Members when the node is not a mapping.
var ErrNotMapping = errors.New("yaml document is not a mapping")

// Members converts a mapping node into ordered members. Nested values are
// converted with Value.
func Members(n *yaml.Node) ([]Member, error) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	out := make([]Member, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		v, err := Value(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, Member{Key: k.Value, Value: v, Line: k.Line, Col: k.Column})
	}
	return out, nil
}

// Value converts n into JSON-like Go values (map[string]any, []any,
// primitives). Duplicate keys cause an error.
func Value(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return Value(n.Content[0])
	case yaml.AliasNode:
		return Value(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if pos, dup := first[k.Value]; dup {
				return nil, &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			v, err := Value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[k.Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := Value(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalar(n), nil
	}
	return nil, nil
}

func scalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		// int64 avoids overflow surprises; callers can coerce later
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}
