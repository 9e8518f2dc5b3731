package dtobj

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/reoring/dtobj/i18n"
	eng "github.com/reoring/dtobj/internal/engine"
	"github.com/reoring/dtobj/internal/yamlstrict"
)

// Param is one constructor input entry.
type Param struct {
	Key   string
	Value any
}

// P builds a Param.
func P(key string, value any) Param { return Param{Key: key, Value: value} }

// Params is the ordered constructor input. Validation walks it in order, so
// the first offending entry is the one reported.
type Params []Param

// ParamsFromMap converts a map into Params sorted by key.
func ParamsFromMap(m map[string]any) Params {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Params, len(keys))
	for i, k := range keys {
		out[i] = Param{Key: k, Value: m[k]}
	}
	return out
}

// Keys returns the input keys in order.
func (ps Params) Keys() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Key
	}
	return out
}

// Lookup returns the value of the last entry with the given key.
func (ps Params) Lookup(key string) (any, bool) {
	for i := len(ps) - 1; i >= 0; i-- {
		if ps[i].Key == key {
			return ps[i].Value, true
		}
	}
	return nil, false
}

func (ps Params) has(key string) bool {
	_, ok := ps.Lookup(key)
	return ok
}

// ParseJSONParams decodes a JSON object into Params in document order using
// the current JSON driver. Duplicate top-level or nested keys are rejected.
func ParseJSONParams(data []byte) (Params, error) {
	return ParseJSONParamsFrom(JSONBytes(data))
}

// ParseJSONParamsReader is like ParseJSONParams for an io.Reader.
func ParseJSONParamsReader(r io.Reader) (Params, error) {
	return ParseJSONParamsFrom(JSONReader(r))
}

// ParseJSONParamsFrom decodes Params from an arbitrary token source.
func ParseJSONParamsFrom(src Source) (Params, error) {
	enforced := eng.WrapWithEnforcement(src, eng.EnforceOptions{RejectDuplicates: true, MaxDepth: maxJSONDepth})
	members, err := eng.DecodeMembers(enforced)
	if err != nil {
		return nil, jsonIssues(err, src.Location())
	}
	out := make(Params, len(members))
	for i, m := range members {
		out[i] = Param{Key: m.Key, Value: m.Value}
	}
	return out, nil
}

const maxJSONDepth = 512

func jsonIssues(err error, offset int64) Issues {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		msg := ie.Message
		if ie.Code == CodeDuplicateKey {
			msg = i18n.T(CodeDuplicateKey, map[string]string{"property": ie.Key})
		}
		return Issues{{Path: ie.Path, Code: ie.Code, Message: msg, Offset: ie.Offset, Cause: err}}
	}
	if errors.Is(err, eng.ErrNotObject) {
		return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil) + ": expected object", Offset: offset, Cause: err}}
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil) + ": " + err.Error(), Offset: offset, Cause: err}}
}

// ParseYAMLParams decodes the first document of a YAML stream, which must be
// a mapping, into Params in document order. Duplicate keys are rejected.
func ParseYAMLParams(data []byte) (Params, error) {
	return ParseYAMLParamsReader(bytes.NewReader(data))
}

// ParseYAMLParamsReader is like ParseYAMLParams for an io.Reader.
func ParseYAMLParamsReader(r io.Reader) (Params, error) {
	root, err := yamlstrict.NewDecoder(r).Next()
	if err == nil && root == nil {
		err = yamlstrict.ErrNotMapping
	}
	var members []yamlstrict.Member
	if err == nil {
		members, err = yamlstrict.Members(root)
	}
	if err != nil {
		return nil, yamlIssues(err)
	}
	out := make(Params, len(members))
	for i, m := range members {
		out[i] = Param{Key: m.Key, Value: m.Value}
	}
	return out, nil
}

func yamlIssues(err error) Issues {
	var de *yamlstrict.DuplicateKeyError
	if errors.As(err, &de) {
		return Issues{{
			Path:    pointer(de.Key),
			Code:    CodeDuplicateKey,
			Message: i18n.T(CodeDuplicateKey, map[string]string{"property": de.Key}),
			Offset:  -1,
			Cause:   err,
			Params:  map[string]any{"property": de.Key, "line": de.Line, "col": de.Col},
		}}
	}
	msg := i18n.T(CodeParseError, nil) + ": " + err.Error()
	if errors.Is(err, yamlstrict.ErrNotMapping) || errors.Is(err, io.EOF) {
		msg = fmt.Sprintf("%s: expected mapping", i18n.T(CodeParseError, nil))
	}
	return singleIssue(CodeParseError, msg, err)
}
