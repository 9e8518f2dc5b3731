package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/dtobj"
	"github.com/reoring/dtobj/docschema"
	"github.com/reoring/dtobj/yamlschema"
)

// schemaSource is an extractor that can enumerate its types.
type schemaSource interface {
	dtobj.SchemaExtractor
	TypeNames() []string
}

// loadSchema picks an extractor from the path: a directory or .go file is
// scanned for doc-comment annotations, a .yaml or .yml file is loaded as a
// YAML schema.
func loadSchema(path string) (schemaSource, error) {
	if path == "" {
		return nil, fmt.Errorf("no schema given (use --schema or DTOBJ_SCHEMA)")
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return docschema.ParseDir(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return docschema.ParseFiles(path)
	case ".yaml", ".yml":
		return yamlschema.LoadFile(path)
	}
	return nil, fmt.Errorf("unsupported schema file %s: want a directory, .go, .yaml or .yml", path)
}
