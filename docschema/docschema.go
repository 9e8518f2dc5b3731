// Package docschema extracts data object schemas from annotations in the
// doc comments of Go type declarations:
//
//	// Contact is exchanged with the CRM.
//	//
//	// @property string $name
//	// @property string|int|null $age
//	// @property CustomType|null $personDetails
//	// @dto snake=false
//	type Contact struct{}
//
// Properties are ordered by their position in the comment.
package docschema

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/dtobj"
)

var (
	propertyLine = regexp.MustCompile(`^@property(?:-read|-write)?\s+(\S+)\s+\$?([A-Za-z_][A-Za-z0-9_]*)\b`)
	optionsLine  = regexp.MustCompile(`^@dto\s+(.*)$`)
)

// Extractor is a dtobj.SchemaExtractor over parsed Go sources.
type Extractor struct {
	types map[string]*typeDecl
}

type typeDecl struct {
	pos   token.Position
	props []dtobj.PropertySchema
	opts  dtobj.TypeOptions
}

var (
	_ dtobj.SchemaExtractor  = (*Extractor)(nil)
	_ dtobj.OptionsExtractor = (*Extractor)(nil)
)

// ParseDir parses every non-test .go file in dir.
func ParseDir(dir string) (*Extractor, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	var files []*ast.File
	for _, name := range sortedKeys(pkgs) {
		pkg := pkgs[name]
		fnames := make([]string, 0, len(pkg.Files))
		for fn := range pkg.Files {
			fnames = append(fnames, fn)
		}
		sort.Strings(fnames)
		for _, fn := range fnames {
			files = append(files, pkg.Files[fn])
		}
	}
	return fromFiles(fset, files)
}

// ParseFiles parses the given .go files.
func ParseFiles(paths ...string) (*Extractor, error) {
	fset := token.NewFileSet()
	files := make([]*ast.File, 0, len(paths))
	for _, p := range paths {
		f, err := parser.ParseFile(fset, p, nil, parser.ParseComments)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return fromFiles(fset, files)
}

// ParseSource parses a single in-memory file.
func ParseSource(filename string, src []byte) (*Extractor, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	return fromFiles(fset, []*ast.File{f})
}

func fromFiles(fset *token.FileSet, files []*ast.File) (*Extractor, error) {
	e := &Extractor{types: map[string]*typeDecl{}}
	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Name == nil {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				if doc == nil {
					continue
				}
				td, err := parseDoc(fset, doc)
				if err != nil {
					return nil, fmt.Errorf("docschema: type %s: %w", ts.Name.Name, err)
				}
				if td == nil {
					continue
				}
				td.pos = fset.Position(ts.Pos())
				if prev, dup := e.types[ts.Name.Name]; dup {
					return nil, fmt.Errorf("docschema: type %s declared at %s and %s", ts.Name.Name, prev.pos, td.pos)
				}
				e.types[ts.Name.Name] = td
			}
		}
	}
	return e, nil
}

// parseDoc returns nil when the comment carries no annotations.
func parseDoc(fset *token.FileSet, cg *ast.CommentGroup) (*typeDecl, error) {
	td := &typeDecl{opts: dtobj.DefaultTypeOptions()}
	annotated := false
	seen := map[string]token.Position{}
	for _, c := range cg.List {
		pos := fset.Position(c.Slash)
		for _, line := range commentLines(c.Text) {
			if m := propertyLine.FindStringSubmatch(line); m != nil {
				annotated = true
				types, err := dtobj.ParseTypeExpr(m[1])
				if err != nil {
					return nil, fmt.Errorf("%s: %w", pos, err)
				}
				if first, dup := seen[m[2]]; dup {
					return nil, fmt.Errorf("%s: property %s already declared at %s", pos, m[2], first)
				}
				seen[m[2]] = pos
				td.props = append(td.props, dtobj.NewPropertySchema(m[2], types))
				continue
			}
			if strings.HasPrefix(line, "@property") {
				return nil, fmt.Errorf("%s: malformed annotation %q", pos, line)
			}
			if m := optionsLine.FindStringSubmatch(line); m != nil {
				annotated = true
				if err := parseOptions(m[1], &td.opts); err != nil {
					return nil, fmt.Errorf("%s: %w", pos, err)
				}
			}
		}
	}
	if !annotated {
		return nil, nil
	}
	return td, nil
}

// commentLines strips comment markers and leading decoration from a raw
// comment, handling both // and /* */ forms.
func commentLines(text string) []string {
	switch {
	case strings.HasPrefix(text, "//"):
		text = text[2:]
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimSuffix(text[2:], "*/")
	}
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		l = strings.TrimSpace(strings.TrimLeft(l, "*"))
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func parseOptions(s string, o *dtobj.TypeOptions) error {
	for _, kv := range strings.Fields(s) {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("option %q: want key=value", kv)
		}
		switch k {
		case "snake":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("option snake: %w", err)
			}
			o.SnakeKeys = b
		default:
			return fmt.Errorf("unknown option %q", k)
		}
	}
	return nil
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

// TypeNames returns the annotated type names in ascending order.
func (e *Extractor) TypeNames() []string { return sortedKeys(e.types) }

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
